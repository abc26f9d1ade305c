package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/espejoinfinito/payments-service/internal/config"
	"github.com/espejoinfinito/payments-service/internal/domain"
)

// PaymentOrchestrator is what the handlers need from the payment service.
type PaymentOrchestrator interface {
	Initialize(ctx context.Context, provider domain.Provider, req domain.InitializeRequest) (*domain.PaymentResponse, error)
	Confirm(ctx context.Context, ref domain.TransactionRef, token string) (*domain.PaymentResponse, error)
	Status(ctx context.Context, ref domain.TransactionRef, token string) (*domain.PaymentStatusResponse, error)
	Refund(ctx context.Context, ref domain.TransactionRef, token string, amount float64) (*domain.PaymentResponse, error)
}

type PaymentHandler struct {
	payments PaymentOrchestrator
	cfg      *config.Config
	validate *validator.Validate
	log      zerolog.Logger
}

func NewPaymentHandler(payments PaymentOrchestrator, cfg *config.Config, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		cfg:      cfg,
		validate: validator.New(),
		log:      log.With().Str("component", "payment_handler").Logger(),
	}
}

// Initialize handles POST /api/payments/initialize.
//
// With PAYMENT_TEST_MODE enabled and provider transbank, a synthetic success
// response is returned without contacting any provider. Local development
// only.
func (h *PaymentHandler) Initialize(c *fiber.Ctx) error {
	var req InitializePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Missing required payment fields")
	}

	if h.cfg.TestMode && req.Provider == string(domain.ProviderTransbank) {
		h.log.Warn().Str("order_id", req.OrderID).Msg("test mode enabled, returning mock transbank payment")
		token := "TEST_TOKEN_" + req.OrderID
		return c.JSON(domain.PaymentResponse{
			TransactionID: req.OrderID,
			Provider:      domain.ProviderTransbank,
			Status:        domain.StatusPending,
			Token:         token,
			RedirectURL:   fmt.Sprintf("%s/carrito/confirmacion?token=%s&status=approved", h.cfg.AppBaseURL, token),
			Message:       "Test payment - redirecting to confirmation page",
			SessionID:     fmt.Sprintf("TEST_SESSION_%d", time.Now().UnixMilli()),
		})
	}

	provider, err := domain.ParseProvider(req.Provider)
	if err != nil {
		return internalError(c, err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "CLP"
	}
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = h.cfg.AppBaseURL + "/carrito/confirmacion"
	}

	result, err := h.payments.Initialize(c.UserContext(), provider, req.toDomain(currency, returnURL))
	if err != nil {
		h.log.Error().Err(err).Str("order_id", req.OrderID).Msg("payment initialization failed")
		return internalError(c, err)
	}
	return c.JSON(result)
}

// Confirm handles POST /api/payments/confirm.
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	var req ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Missing required payment fields")
	}

	ref := domain.TransactionRef{Provider: domain.Provider(req.Provider), Ref: req.TransactionID}
	result, err := h.payments.Confirm(c.UserContext(), ref, req.Token)
	if err != nil {
		h.log.Error().Err(err).Str("transaction_id", req.TransactionID).Msg("payment confirmation failed")
		return internalError(c, err)
	}
	return c.JSON(result)
}

// Status handles GET /api/payments/status/:id.
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	id := c.Params("id")
	provider := c.Query("provider")
	if id == "" || provider == "" {
		return badRequest(c, "Missing transaction ID or provider")
	}

	ref := domain.TransactionRef{Provider: domain.Provider(provider), Ref: id}
	result, err := h.payments.Status(c.UserContext(), ref, c.Query("token"))
	if err != nil {
		h.log.Error().Err(err).Str("transaction_id", id).Msg("payment status lookup failed")
		return internalError(c, err)
	}
	return c.JSON(result)
}

// Refund handles POST /api/payments/refund.
func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	var req RefundPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Missing transaction ID or provider")
	}

	ref := domain.TransactionRef{Provider: domain.Provider(req.Provider), Ref: req.TransactionID}
	result, err := h.payments.Refund(c.UserContext(), ref, req.Token, req.Amount)
	if err != nil {
		h.log.Error().Err(err).Str("transaction_id", req.TransactionID).Msg("refund failed")
		return internalError(c, err)
	}
	return c.JSON(result)
}

// Health handles GET /api/health.
func (h *PaymentHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"service": "payments-service", "status": "healthy"})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: message})
}

// internalError maps every service-level failure to 500. That includes
// unsupported-provider and missing-token errors, matching the historical
// behavior of this API.
func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
}
