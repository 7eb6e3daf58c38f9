package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/offerhub/offerhub-go/internal/model"
)

const paymentCurrency = "eur"

// PaymentService forwards purchases to the payment provider.
type PaymentService struct {
	charger Charger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(charger Charger) *PaymentService {
	return &PaymentService{charger: charger}
}

// Pay charges amount euros against a card token.
func (s *PaymentService) Pay(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error) {
	if req.Token == "" || req.Amount <= 0 || math.IsInf(req.Amount, 0) || math.IsNaN(req.Amount) {
		return nil, ErrMissingParameters
	}

	cents := int64(math.Round(req.Amount * 100))
	status, err := s.charger.Charge(ctx, cents, paymentCurrency, "Paiement pour : "+req.Title, req.Token)
	if err != nil {
		slog.Error("charge failed", "amount", cents, "error", err)
		return nil, fmt.Errorf("%w: charge: %w", ErrUpstream, err)
	}

	return &model.PaymentResponse{Status: status}, nil
}
