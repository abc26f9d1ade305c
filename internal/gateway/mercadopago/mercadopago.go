// Package mercadopago implements the Mercado Pago adapter.
//
// Mercado Pago is preference-based: the merchant creates a checkout
// preference and redirects the customer to the hosted init_point. The
// provider issues its own payment id; the merchant order id travels in
// external_reference.
package mercadopago

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/espejoinfinito/payments-service/internal/config"
	"github.com/espejoinfinito/payments-service/internal/domain"
)

const defaultBaseURL = "https://api.mercadopago.com/v1"

// statusMap translates Mercado Pago's status vocabulary into the normalized
// one. Unknown values fall back to pending.
var statusMap = map[string]domain.Status{
	"pending":      domain.StatusPending,
	"approved":     domain.StatusCaptured,
	"authorized":   domain.StatusAuthorized,
	"in_process":   domain.StatusPending,
	"in_mediation": domain.StatusPending,
	"rejected":     domain.StatusDeclined,
	"cancelled":    domain.StatusCancelled,
	"refunded":     domain.StatusRefunded,
	"charged_back": domain.StatusRefunded,
}

// MapStatus normalizes a raw Mercado Pago payment status.
func MapStatus(raw string) domain.Status {
	if s, ok := statusMap[raw]; ok {
		return s
	}
	return domain.StatusPending
}

type Adapter struct {
	cfg  config.MercadoPago
	http *resty.Client
	log  zerolog.Logger
}

func New(cfg config.MercadoPago, log zerolog.Logger) *Adapter {
	return &Adapter{
		cfg:  cfg,
		http: resty.New().SetBaseURL(defaultBaseURL),
		log:  log.With().Str("gateway", "mercado_pago").Logger(),
	}
}

func (a *Adapter) Name() domain.Provider {
	return domain.ProviderMercadoPago
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type preferencePayer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items             []preferenceItem   `json:"items"`
	Payer             preferencePayer    `json:"payer"`
	BackURLs          preferenceBackURLs `json:"back_urls"`
	AutoReturn        string             `json:"auto_return"`
	NotificationURL   string             `json:"notification_url,omitempty"`
	ExternalReference string             `json:"external_reference"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// Initialize creates a checkout preference. The returned transaction id is
// the provider's preference id, not the merchant order id.
func (a *Adapter) Initialize(ctx context.Context, req domain.InitializeRequest) (*domain.PaymentResponse, error) {
	if a.cfg.AccessToken == "" {
		return nil, fmt.Errorf("%w: mercado pago access token", domain.ErrNotConfigured)
	}

	currencyID := "USD"
	if req.Currency == "CLP" {
		currencyID = "CLP"
	}

	body := preferenceRequest{
		Items: []preferenceItem{{
			Title:      req.Description,
			Quantity:   1,
			UnitPrice:  req.Amount,
			CurrencyID: currencyID,
		}},
		Payer: preferencePayer{Email: req.CustomerEmail, Name: req.CustomerName},
		BackURLs: preferenceBackURLs{
			Success: req.ReturnURL,
			Failure: req.ReturnURL + "?status=failure",
			Pending: req.ReturnURL + "?status=pending",
		},
		AutoReturn:        "approved",
		NotificationURL:   a.cfg.NotificationURL,
		ExternalReference: req.OrderID,
	}

	var result preferenceResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetAuthToken(a.cfg.AccessToken).
		SetBody(body).
		SetResult(&result).
		Post("/checkout/preferences")
	if err != nil {
		return nil, fmt.Errorf("mercado pago init request: %w", err)
	}
	if resp.IsError() {
		return nil, domain.NewProviderError(domain.ProviderMercadoPago, resp.StatusCode(), resp.String())
	}

	a.log.Info().Str("preference_id", result.ID).Str("external_reference", req.OrderID).Msg("preference created")

	return &domain.PaymentResponse{
		TransactionID: result.ID,
		Provider:      domain.ProviderMercadoPago,
		Status:        domain.StatusPending,
		RedirectURL:   result.InitPoint,
		Message:       "Preference created successfully",
	}, nil
}

type paymentResource struct {
	ID                any     `json:"id"`
	Status            string  `json:"status"`
	TransactionAmount float64 `json:"transaction_amount"`
	ExternalReference string  `json:"external_reference"`
	DateCreated       string  `json:"date_created"`
	DateLastUpdated   string  `json:"date_last_updated"`
	AuthorizationCode string  `json:"authorization_code"`
	Card              struct {
		LastFourDigits string `json:"last_four_digits"`
	} `json:"card"`
}

// Status fetches a payment by provider id. The normalized transaction id is
// the external_reference when the provider echoes one back.
func (a *Adapter) Status(ctx context.Context, paymentID string) (*domain.PaymentStatusResponse, error) {
	if a.cfg.AccessToken == "" {
		return nil, fmt.Errorf("%w: mercado pago access token", domain.ErrNotConfigured)
	}

	var result paymentResource
	resp, err := a.http.R().
		SetContext(ctx).
		SetAuthToken(a.cfg.AccessToken).
		SetResult(&result).
		Get("/payments/" + paymentID)
	if err != nil {
		return nil, fmt.Errorf("mercado pago status request: %w", err)
	}
	if resp.IsError() {
		return nil, domain.NewProviderError(domain.ProviderMercadoPago, resp.StatusCode(), resp.String())
	}

	transactionID := result.ExternalReference
	if transactionID == "" {
		transactionID = rawID(result.ID)
	}

	return &domain.PaymentStatusResponse{
		TransactionID:     transactionID,
		Status:            MapStatus(result.Status),
		Amount:            result.TransactionAmount,
		Provider:          domain.ProviderMercadoPago,
		CreatedAt:         result.DateCreated,
		UpdatedAt:         result.DateLastUpdated,
		AuthorizationCode: result.AuthorizationCode,
		CardLastFour:      result.Card.LastFourDigits,
	}, nil
}

// Confirm has no dedicated endpoint at Mercado Pago; it is a status lookup
// repackaged as a PaymentResponse so the operation set stays uniform across
// providers.
func (a *Adapter) Confirm(ctx context.Context, paymentID string) (*domain.PaymentResponse, error) {
	status, err := a.Status(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return &domain.PaymentResponse{
		TransactionID:     status.TransactionID,
		Provider:          domain.ProviderMercadoPago,
		Status:            status.Status,
		Message:           fmt.Sprintf("Payment status: %s", status.Status),
		AuthorizationCode: status.AuthorizationCode,
	}, nil
}

type refundResource struct {
	ID any `json:"id"`
}

// Refund issues a full refund for a payment. Mercado Pago takes no body for
// full refunds.
func (a *Adapter) Refund(ctx context.Context, paymentID string, _ float64) (*domain.PaymentResponse, error) {
	if a.cfg.AccessToken == "" {
		return nil, fmt.Errorf("%w: mercado pago access token", domain.ErrNotConfigured)
	}

	var result refundResource
	resp, err := a.http.R().
		SetContext(ctx).
		SetAuthToken(a.cfg.AccessToken).
		SetResult(&result).
		Post("/payments/" + paymentID + "/refunds")
	if err != nil {
		return nil, fmt.Errorf("mercado pago refund request: %w", err)
	}
	if resp.IsError() {
		return nil, domain.NewProviderError(domain.ProviderMercadoPago, resp.StatusCode(), resp.String())
	}

	return &domain.PaymentResponse{
		TransactionID: rawID(result.ID),
		Provider:      domain.ProviderMercadoPago,
		Status:        domain.StatusRefunded,
		Message:       "Refund processed successfully",
	}, nil
}

// rawID renders Mercado Pago ids, which arrive as numbers for payments and
// strings for preferences.
func rawID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
