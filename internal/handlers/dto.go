package handlers

import "github.com/espejoinfinito/payments-service/internal/domain"

// Inbound payloads are shallow-validated: required fields must be present,
// nothing more. Anything past that is the provider's problem.

type InitializePaymentRequest struct {
	Provider      string  `json:"provider" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency"`
	OrderID       string  `json:"orderId" validate:"required"`
	Description   string  `json:"description"`
	CustomerEmail string  `json:"customerEmail" validate:"required"`
	CustomerName  string  `json:"customerName"`
	ReturnURL     string  `json:"returnUrl"`
}

type ConfirmPaymentRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
	Provider      string `json:"provider" validate:"required"`
	Token         string `json:"token"`
}

type RefundPaymentRequest struct {
	TransactionID string  `json:"transactionId" validate:"required"`
	Provider      string  `json:"provider" validate:"required"`
	Token         string  `json:"token"`
	Amount        float64 `json:"amount"`
}

type ContactRequest struct {
	Nombre  string `json:"nombre" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Mensaje string `json:"mensaje" validate:"required"`
}

type ProductPriceRequest struct {
	Width  float64 `json:"width" validate:"required,gt=0"`
	Height float64 `json:"height" validate:"required,gt=0"`
}

type ProductPriceResponse struct {
	Price float64 `json:"price"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (r InitializePaymentRequest) toDomain(currency, returnURL string) domain.InitializeRequest {
	return domain.InitializeRequest{
		Amount:        r.Amount,
		Currency:      currency,
		OrderID:       r.OrderID,
		Description:   r.Description,
		CustomerEmail: r.CustomerEmail,
		CustomerName:  r.CustomerName,
		ReturnURL:     returnURL,
	}
}
