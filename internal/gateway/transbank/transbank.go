// Package transbank implements the Webpay Plus adapter.
//
// Webpay uses a three-legged flow: the merchant initializes a transaction and
// receives an opaque token, redirects the customer to Webpay with that token,
// then acknowledges the result. All state lives on Transbank's side, keyed by
// the token.
package transbank

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	mrand "math/rand"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/espejoinfinito/payments-service/internal/config"
	"github.com/espejoinfinito/payments-service/internal/domain"
)

type Adapter struct {
	cfg     config.Transbank
	baseURL string
	http    *resty.Client
	log     zerolog.Logger
}

func New(cfg config.Transbank, log zerolog.Logger) *Adapter {
	baseURL := cfg.BaseURL()
	return &Adapter{
		cfg:     cfg,
		baseURL: baseURL,
		http:    resty.New().SetBaseURL(baseURL),
		log:     log.With().Str("gateway", "transbank").Logger(),
	}
}

func (a *Adapter) Name() domain.Provider {
	return domain.ProviderTransbank
}

type initResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// Initialize creates a Webpay transaction. The request is form-encoded and
// signed with HMAC-SHA256 over buy_order, session_id, amount and return_url.
func (a *Adapter) Initialize(ctx context.Context, req domain.InitializeRequest) (*domain.PaymentResponse, error) {
	sessionID := newSessionID()
	amount := int64(math.Round(req.Amount))

	signed := fmt.Sprintf("%s%s%d%s", req.OrderID, sessionID, amount, req.ReturnURL)
	signature := a.sign(signed)

	var result initResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"commerce_code":      a.cfg.CommerceCode,
			"buy_order":          req.OrderID,
			"session_id":         sessionID,
			"amount":             strconv.FormatInt(amount, 10),
			"return_url":         req.ReturnURL,
			"commerce_code_sign": a.cfg.CommerceCode,
			"signature":          signature,
		}).
		SetResult(&result).
		Post("/wsInitTransaction")
	if err != nil {
		return nil, fmt.Errorf("transbank init request: %w", err)
	}
	if resp.IsError() {
		return nil, domain.NewProviderError(domain.ProviderTransbank, resp.StatusCode(), resp.String())
	}

	a.log.Info().Str("buy_order", req.OrderID).Int64("amount", amount).Msg("transaction initialized")

	return &domain.PaymentResponse{
		TransactionID: req.OrderID,
		Provider:      domain.ProviderTransbank,
		Status:        domain.StatusPending,
		Token:         result.Token,
		RedirectURL:   fmt.Sprintf("%s/webpay/initTransaction?token_ws=%s", a.baseURL, result.Token),
		Message:       "Transaction initialized successfully",
		SessionID:     sessionID,
	}, nil
}

type ackResponse struct {
	BuyOrder          string `json:"buy_order"`
	ResponseCode      int    `json:"response_code"`
	AuthorizationCode string `json:"authorization_code"`
	URLRedirection    string `json:"urlRedirection"`
}

// Confirm acknowledges a transaction after the customer returns from Webpay.
// Response code 0 means the charge was authorized.
func (a *Adapter) Confirm(ctx context.Context, token string) (*domain.PaymentResponse, error) {
	var result ackResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"commerce_code": a.cfg.CommerceCode,
			"token_ws":      token,
		}).
		SetResult(&result).
		Post("/wsAcknowledge")
	if err != nil {
		return nil, fmt.Errorf("transbank confirm request: %w", err)
	}
	if resp.IsError() {
		return nil, domain.NewProviderError(domain.ProviderTransbank, resp.StatusCode(), resp.String())
	}

	status := domain.StatusDeclined
	if result.ResponseCode == 0 {
		status = domain.StatusAuthorized
	}

	return &domain.PaymentResponse{
		TransactionID:     result.BuyOrder,
		Provider:          domain.ProviderTransbank,
		Status:            status,
		RedirectURL:       result.URLRedirection,
		Message:           fmt.Sprintf("Payment %s", status),
		AuthorizationCode: result.AuthorizationCode,
	}, nil
}

type statusResponse struct {
	ResponseCode      int     `json:"response_code"`
	Status            string  `json:"status"`
	Amount            float64 `json:"amount"`
	AuthorizationCode string  `json:"authorization_code"`
	CardDetail        struct {
		CardNumber string `json:"card_number"`
	} `json:"card_detail"`
}

// Status fetches the current state of a transaction. Webpay reports no
// timestamps, so request time stands in for created/updated.
func (a *Adapter) Status(ctx context.Context, token string) (*domain.PaymentStatusResponse, error) {
	var result statusResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"commerce_code": a.cfg.CommerceCode,
			"token_ws":      token,
		}).
		SetResult(&result).
		Get("/wsTransactionStatus")
	if err != nil {
		return nil, fmt.Errorf("transbank status request: %w", err)
	}
	if resp.IsError() {
		return nil, domain.NewProviderError(domain.ProviderTransbank, resp.StatusCode(), resp.String())
	}

	var status domain.Status
	switch {
	case result.ResponseCode != 0:
		status = domain.StatusDeclined
	case result.Status == "AUTHORIZED":
		status = domain.StatusAuthorized
	default:
		status = domain.StatusCaptured
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return &domain.PaymentStatusResponse{
		TransactionID:     token,
		Status:            status,
		Amount:            result.Amount,
		Provider:          domain.ProviderTransbank,
		CreatedAt:         now,
		UpdatedAt:         now,
		AuthorizationCode: result.AuthorizationCode,
		CardLastFour:      lastFour(result.CardDetail.CardNumber),
	}, nil
}

type refundResponse struct {
	ResponseCode      int    `json:"response_code"`
	AuthorizationCode string `json:"authorization_code"`
}

// Refund reverses a captured transaction. A zero amount requests a full
// refund.
func (a *Adapter) Refund(ctx context.Context, token string, amount float64) (*domain.PaymentResponse, error) {
	form := map[string]string{
		"commerce_code": a.cfg.CommerceCode,
		"token_ws":      token,
	}
	if amount > 0 {
		form["amount"] = strconv.FormatInt(int64(math.Round(amount)), 10)
	}

	var result refundResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&result).
		Post("/wsRefund")
	if err != nil {
		return nil, fmt.Errorf("transbank refund request: %w", err)
	}
	if resp.IsError() {
		return nil, domain.NewProviderError(domain.ProviderTransbank, resp.StatusCode(), resp.String())
	}

	status := domain.StatusRefunded
	message := "Refund processed successfully"
	if result.ResponseCode != 0 {
		status = domain.StatusDeclined
		message = fmt.Sprintf("Refund declined with code %d", result.ResponseCode)
	}

	return &domain.PaymentResponse{
		TransactionID:     token,
		Provider:          domain.ProviderTransbank,
		Status:            status,
		Message:           message,
		AuthorizationCode: result.AuthorizationCode,
	}, nil
}

func (a *Adapter) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(a.cfg.APIKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// newSessionID returns a fresh UUID, falling back to a pseudo-random one when
// the system entropy source is unavailable.
func newSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	var b [16]byte
	hi, lo := mrand.Uint64(), mrand.Uint64()
	for i := 0; i < 8; i++ {
		b[i] = byte(hi >> (8 * i))
		b[8+i] = byte(lo >> (8 * i))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b).String()
}

func lastFour(cardNumber string) string {
	if len(cardNumber) < 4 {
		return ""
	}
	return cardNumber[len(cardNumber)-4:]
}
