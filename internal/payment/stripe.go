package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeCharger creates card charges through the Stripe API.
type StripeCharger struct {
	api *client.API
}

// NewStripeCharger creates a StripeCharger authenticated with secretKey.
func NewStripeCharger(secretKey string) *StripeCharger {
	return newStripeCharger(secretKey, nil)
}

func newStripeCharger(secretKey string, backends *stripe.Backends) *StripeCharger {
	return &StripeCharger{api: client.New(secretKey, backends)}
}

// Charge charges amountCents against a card token and returns the charge status.
func (c *StripeCharger) Charge(ctx context.Context, amountCents int64, currency, description, source string) (string, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	params.Context = ctx
	if err := params.SetSource(source); err != nil {
		return "", fmt.Errorf("set charge source: %w", err)
	}

	charge, err := c.api.Charges.New(params)
	if err != nil {
		return "", fmt.Errorf("create charge: %w", err)
	}
	return string(charge.Status), nil
}
