package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/offerhub/offerhub-go/internal/model"
)

// PaymentService is the checkout logic used by PaymentHandler.
type PaymentService interface {
	Pay(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error)
}

// PaymentHandler handles HTTP requests for checkout.
type PaymentHandler struct {
	service PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// HandlePay handles POST /payment requests.
func (h *PaymentHandler) HandlePay(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, 1<<20) // 1MB
	if err != nil {
		writeBodyError(w, err)
		return
	}

	// A missing or malformed amount is rejected by the service as zero.
	amount, _ := strconv.ParseFloat(body.String("amount"), 64)

	resp, err := h.service.Pay(r.Context(), model.PaymentRequest{
		Token:  body.String("token"),
		Amount: amount,
		Title:  body.String("title"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
