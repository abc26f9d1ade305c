// Package client is a thin same-origin HTTP client for the payments API,
// used by the storefront frontend-for-backend layer. It documents the
// contract the transport boundary must keep.
package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/espejoinfinito/payments-service/internal/domain"
)

type Client struct {
	http *resty.Client
}

// New builds a client against baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

func (c *Client) InitializePayment(ctx context.Context, provider domain.Provider, req domain.InitializeRequest) (*domain.PaymentResponse, error) {
	body := map[string]any{
		"provider":      provider,
		"amount":        req.Amount,
		"currency":      req.Currency,
		"orderId":       req.OrderID,
		"description":   req.Description,
		"customerEmail": req.CustomerEmail,
		"customerName":  req.CustomerName,
		"returnUrl":     req.ReturnURL,
	}

	var result domain.PaymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/api/payments/initialize")
	if err != nil {
		return nil, fmt.Errorf("initialize payment request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment initialization failed: %s", resp.Status())
	}
	return &result, nil
}

func (c *Client) ConfirmPayment(ctx context.Context, ref domain.TransactionRef, token string) (*domain.PaymentResponse, error) {
	var result domain.PaymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"transactionId": ref.Ref,
			"provider":      ref.Provider,
			"token":         token,
		}).
		SetResult(&result).
		Post("/api/payments/confirm")
	if err != nil {
		return nil, fmt.Errorf("confirm payment request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment confirmation failed: %s", resp.Status())
	}
	return &result, nil
}

func (c *Client) GetPaymentStatus(ctx context.Context, ref domain.TransactionRef, token string) (*domain.PaymentStatusResponse, error) {
	var result domain.PaymentStatusResponse
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("provider", string(ref.Provider)).
		SetResult(&result)
	if token != "" {
		req.SetQueryParam("token", token)
	}
	resp, err := req.Get("/api/payments/status/" + ref.Ref)
	if err != nil {
		return nil, fmt.Errorf("payment status request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get payment status: %s", resp.Status())
	}
	return &result, nil
}

func (c *Client) RefundPayment(ctx context.Context, ref domain.TransactionRef, token string) (*domain.PaymentResponse, error) {
	var result domain.PaymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"transactionId": ref.Ref,
			"provider":      ref.Provider,
			"token":         token,
		}).
		SetResult(&result).
		Post("/api/payments/refund")
	if err != nil {
		return nil, fmt.Errorf("refund payment request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("refund failed: %s", resp.Status())
	}
	return &result, nil
}
