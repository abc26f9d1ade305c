package gateway

import (
	"context"

	"github.com/espejoinfinito/payments-service/internal/domain"
)

// PaymentGateway is the operation set every provider adapter implements.
//
// The ref argument is the provider-side handle for an existing transaction:
// the Webpay token for Transbank, the payment id for Mercado Pago. Initialize
// is the only operation that does not need one.
type PaymentGateway interface {
	Name() domain.Provider
	Initialize(ctx context.Context, req domain.InitializeRequest) (*domain.PaymentResponse, error)
	Confirm(ctx context.Context, ref string) (*domain.PaymentResponse, error)
	Status(ctx context.Context, ref string) (*domain.PaymentStatusResponse, error)
	Refund(ctx context.Context, ref string, amount float64) (*domain.PaymentResponse, error)
}
