// Package service exposes one normalized payment interface over the provider
// adapters. It is a dispatch layer: provider selection, the token
// preconditions of the card gateway, nothing else. Adapter errors propagate
// untouched; the transport boundary is the single place they become HTTP.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/espejoinfinito/payments-service/internal/domain"
	"github.com/espejoinfinito/payments-service/internal/gateway"
)

type PaymentService struct {
	gateways map[domain.Provider]gateway.PaymentGateway
	log      zerolog.Logger
}

func New(log zerolog.Logger, gateways ...gateway.PaymentGateway) *PaymentService {
	byProvider := make(map[domain.Provider]gateway.PaymentGateway, len(gateways))
	for _, g := range gateways {
		byProvider[g.Name()] = g
	}
	return &PaymentService{
		gateways: byProvider,
		log:      log.With().Str("component", "payment_service").Logger(),
	}
}

func (s *PaymentService) gateway(provider domain.Provider) (gateway.PaymentGateway, error) {
	g, ok := s.gateways[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	return g, nil
}

// Initialize starts a checkout attempt with the selected provider.
func (s *PaymentService) Initialize(ctx context.Context, provider domain.Provider, req domain.InitializeRequest) (*domain.PaymentResponse, error) {
	g, err := s.gateway(provider)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("provider", string(provider)).Str("order_id", req.OrderID).Float64("amount", req.Amount).Msg("initializing payment")
	return g.Initialize(ctx, req)
}

// Confirm finalizes a transaction. Transbank requires the Webpay token; for
// Mercado Pago the token is ignored and the provider payment id in ref is
// used for a status lookup.
func (s *PaymentService) Confirm(ctx context.Context, ref domain.TransactionRef, token string) (*domain.PaymentResponse, error) {
	g, err := s.gateway(ref.Provider)
	if err != nil {
		return nil, err
	}
	switch ref.Provider {
	case domain.ProviderTransbank:
		if token == "" {
			return nil, fmt.Errorf("%w for transbank confirm", domain.ErrMissingToken)
		}
		return g.Confirm(ctx, token)
	default:
		return g.Confirm(ctx, ref.Ref)
	}
}

// Status retrieves the normalized state of a transaction.
func (s *PaymentService) Status(ctx context.Context, ref domain.TransactionRef, token string) (*domain.PaymentStatusResponse, error) {
	g, err := s.gateway(ref.Provider)
	if err != nil {
		return nil, err
	}
	switch ref.Provider {
	case domain.ProviderTransbank:
		if token == "" {
			return nil, fmt.Errorf("%w for transbank status", domain.ErrMissingToken)
		}
		return g.Status(ctx, token)
	default:
		return g.Status(ctx, ref.Ref)
	}
}

// Refund reverses a transaction. A zero amount requests a full refund.
func (s *PaymentService) Refund(ctx context.Context, ref domain.TransactionRef, token string, amount float64) (*domain.PaymentResponse, error) {
	g, err := s.gateway(ref.Provider)
	if err != nil {
		return nil, err
	}
	switch ref.Provider {
	case domain.ProviderTransbank:
		if token == "" {
			return nil, fmt.Errorf("%w for transbank refund", domain.ErrMissingToken)
		}
		return g.Refund(ctx, token, amount)
	default:
		return g.Refund(ctx, ref.Ref, amount)
	}
}
