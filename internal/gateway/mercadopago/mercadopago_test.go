package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espejoinfinito/payments-service/internal/config"
	"github.com/espejoinfinito/payments-service/internal/domain"
)

func newTestAdapter(srv *httptest.Server) *Adapter {
	a := New(config.MercadoPago{
		AccessToken:     "TEST-TOKEN",
		NotificationURL: "https://merchant/webhooks/mp",
	}, zerolog.Nop())
	a.http.SetBaseURL(srv.URL)
	return a
}

func TestMapStatusTable(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Status
	}{
		{"pending", domain.StatusPending},
		{"approved", domain.StatusCaptured},
		{"authorized", domain.StatusAuthorized},
		{"in_process", domain.StatusPending},
		{"in_mediation", domain.StatusPending},
		{"rejected", domain.StatusDeclined},
		{"cancelled", domain.StatusCancelled},
		{"refunded", domain.StatusRefunded},
		{"charged_back", domain.StatusRefunded},
		{"something_new", domain.StatusPending},
		{"", domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MapStatus(tt.raw))
			// Pure mapping: same input, same output.
			assert.Equal(t, MapStatus(tt.raw), MapStatus(tt.raw))
		})
	}
}

func TestInitialize(t *testing.T) {
	var gotAuth string
	var gotBody preferenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/preferences", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"PREF-123","init_point":"https://mp/checkout/PREF-123"}`)
	}))
	defer srv.Close()

	a := newTestAdapter(srv)
	resp, err := a.Initialize(context.Background(), domain.InitializeRequest{
		Amount:        50000,
		Currency:      "CLP",
		OrderID:       "ORD-2",
		Description:   "Espejo infinito 60x40",
		CustomerEmail: "a@b.com",
		CustomerName:  "A",
		ReturnURL:     "https://x/ok",
	})
	require.NoError(t, err)

	// The provider's preference id is the transaction id; the merchant order
	// id does NOT round-trip here, unlike Transbank.
	assert.Equal(t, "PREF-123", resp.TransactionID)
	assert.NotEqual(t, "ORD-2", resp.TransactionID)
	assert.Equal(t, domain.ProviderMercadoPago, resp.Provider)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, "https://mp/checkout/PREF-123", resp.RedirectURL)
	assert.Empty(t, resp.Token)

	assert.Equal(t, "Bearer TEST-TOKEN", gotAuth)
	require.Len(t, gotBody.Items, 1)
	assert.Equal(t, "Espejo infinito 60x40", gotBody.Items[0].Title)
	assert.Equal(t, 1, gotBody.Items[0].Quantity)
	assert.Equal(t, float64(50000), gotBody.Items[0].UnitPrice)
	assert.Equal(t, "CLP", gotBody.Items[0].CurrencyID)
	assert.Equal(t, "https://x/ok", gotBody.BackURLs.Success)
	assert.Equal(t, "https://x/ok?status=failure", gotBody.BackURLs.Failure)
	assert.Equal(t, "https://x/ok?status=pending", gotBody.BackURLs.Pending)
	assert.Equal(t, "approved", gotBody.AutoReturn)
	assert.Equal(t, "https://merchant/webhooks/mp", gotBody.NotificationURL)
	assert.Equal(t, "ORD-2", gotBody.ExternalReference)
}

func TestInitializeNonCLPFallsBackToUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body preferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "USD", body.Items[0].CurrencyID)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"PREF-9","init_point":"https://mp/c"}`)
	}))
	defer srv.Close()

	a := newTestAdapter(srv)
	_, err := a.Initialize(context.Background(), domain.InitializeRequest{
		Amount: 100, Currency: "ARS", OrderID: "ORD-9",
	})
	require.NoError(t, err)
}

func TestInitializeNotConfigured(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	a := New(config.MercadoPago{}, zerolog.Nop())
	a.http.SetBaseURL(srv.URL)

	_, err := a.Initialize(context.Background(), domain.InitializeRequest{Amount: 100, OrderID: "ORD-1"})
	require.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.Zero(t, calls, "a missing credential must fail before any network call")
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/999", r.URL.Path)
		assert.Equal(t, "Bearer TEST-TOKEN", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": 999,
			"status": "approved",
			"transaction_amount": 50000,
			"external_reference": "ORD-2",
			"date_created": "2026-08-30T12:00:00.000-04:00",
			"date_last_updated": "2026-08-30T12:05:00.000-04:00",
			"authorization_code": "AUTH5",
			"card": {"last_four_digits": "1234"}
		}`)
	}))
	defer srv.Close()

	a := newTestAdapter(srv)
	resp, err := a.Status(context.Background(), "999")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCaptured, resp.Status)
	assert.Equal(t, "ORD-2", resp.TransactionID)
	assert.Equal(t, float64(50000), resp.Amount)
	assert.Equal(t, "2026-08-30T12:00:00.000-04:00", resp.CreatedAt)
	assert.Equal(t, "AUTH5", resp.AuthorizationCode)
	assert.Equal(t, "1234", resp.CardLastFour)
}

func TestStatusFallsBackToRawID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 999, "status": "pending", "transaction_amount": 10}`)
	}))
	defer srv.Close()

	a := newTestAdapter(srv)
	resp, err := a.Status(context.Background(), "999")
	require.NoError(t, err)
	assert.Equal(t, "999", resp.TransactionID)
}

func TestConfirmEmbedsNormalizedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 999, "status": "approved", "transaction_amount": 10, "external_reference": "ORD-2"}`)
	}))
	defer srv.Close()

	a := newTestAdapter(srv)
	resp, err := a.Confirm(context.Background(), "999")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCaptured, resp.Status)
	assert.Equal(t, "Payment status: captured", resp.Message)
}

func TestRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments/999/refunds", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 111}`)
	}))
	defer srv.Close()

	a := newTestAdapter(srv)
	resp, err := a.Refund(context.Background(), "999", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, resp.Status)
	assert.Equal(t, "111", resp.TransactionID)
}

func TestStatusProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	a := newTestAdapter(srv)
	_, err := a.Status(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
