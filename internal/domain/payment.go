package domain

import "fmt"

// Provider identifies an external payment provider.
type Provider string

const (
	ProviderTransbank   Provider = "transbank"
	ProviderMercadoPago Provider = "mercado_pago"
)

// ParseProvider validates a wire-level provider discriminator.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderTransbank, ProviderMercadoPago:
		return Provider(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
	}
}

// Status is the normalized payment status vocabulary. Every provider-specific
// status is mapped into one of these values before leaving the service.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAuthorized Status = "authorized"
	StatusCaptured   Status = "captured"
	StatusDeclined   Status = "declined"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusError      Status = "error"
)

// TransactionRef pairs a transaction identifier with the provider that issued
// it. The two providers have incompatible identifier semantics: Transbank
// transactions are keyed by the merchant's buy order, Mercado Pago by the
// provider's own payment id. Callers must branch on Provider instead of
// treating Ref as interchangeable.
type TransactionRef struct {
	Provider Provider `json:"provider"`
	Ref      string   `json:"ref"`
}

// TransbankRef references a Transbank transaction by merchant buy order.
func TransbankRef(buyOrder string) TransactionRef {
	return TransactionRef{Provider: ProviderTransbank, Ref: buyOrder}
}

// MercadoPagoRef references a Mercado Pago payment by provider payment id.
func MercadoPagoRef(paymentID string) TransactionRef {
	return TransactionRef{Provider: ProviderMercadoPago, Ref: paymentID}
}

// InitializeRequest carries everything needed to start one checkout attempt.
// OrderID must be unique per attempt; uniqueness is the caller's problem.
type InitializeRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	OrderID       string  `json:"orderId"`
	Description   string  `json:"description"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerName  string  `json:"customerName"`
	ReturnURL     string  `json:"returnUrl"`
}

// PaymentResponse is returned by initialize, confirm and refund operations.
type PaymentResponse struct {
	TransactionID     string   `json:"transactionId"`
	Provider          Provider `json:"provider"`
	Status            Status   `json:"status"`
	RedirectURL       string   `json:"redirectUrl"`
	Token             string   `json:"token,omitempty"`
	Message           string   `json:"message"`
	SessionID         string   `json:"sessionId,omitempty"`
	AuthorizationCode string   `json:"authorizationCode,omitempty"`
}

// Ref returns the tagged reference callers should persist for later
// confirm/status/refund calls.
func (r PaymentResponse) Ref() TransactionRef {
	return TransactionRef{Provider: r.Provider, Ref: r.TransactionID}
}

// PaymentStatusResponse is returned by status lookups.
type PaymentStatusResponse struct {
	TransactionID     string   `json:"transactionId"`
	Status            Status   `json:"status"`
	Amount            float64  `json:"amount"`
	Provider          Provider `json:"provider"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
	AuthorizationCode string   `json:"authorizationCode,omitempty"`
	CardLastFour      string   `json:"cardLastFour,omitempty"`
}
