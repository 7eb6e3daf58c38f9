package model

// PaymentRequest represents a charge request for an offer.
type PaymentRequest struct {
	Token  string  `json:"token"`
	Amount float64 `json:"amount"`
	Title  string  `json:"title"`
}

// PaymentResponse carries the provider status of the charge.
type PaymentResponse struct {
	Status string `json:"status"`
}
