package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingressos/internal/payment"
)

func TestClient_CreatePreference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer TEST-TOKEN", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Idempotency-Key"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		items, _ := body["items"].([]any)
		if assert.Len(t, items, 1) {
			item, _ := items[0].(map[string]any)
			assert.Equal(t, "Ingresso - Lual na Praia", item["title"])
			assert.Equal(t, float64(1), item["quantity"])
			assert.Equal(t, "BRL", item["currency_id"])
			assert.Equal(t, float64(100), item["unit_price"])
		}
		assert.Equal(t, "approved", body["auto_return"])
		assert.Equal(t, "https://tickets.test/webhook", body["notification_url"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"pref-123","init_point":"https://mp.test/init","sandbox_init_point":"https://mp.test/sandbox"}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{AccessToken: "TEST-TOKEN", BaseURL: srv.URL})

	pref, err := client.CreatePreference(context.Background(), &payment.PreferenceRequest{
		Title:           "Ingresso - Lual na Praia",
		Quantity:        1,
		UnitPrice:       decimal.NewFromInt(100),
		Currency:        "BRL",
		PayerEmail:      "buyer@example.com",
		SuccessURL:      "https://tickets.test/success",
		FailureURL:      "https://tickets.test/",
		NotificationURL: "https://tickets.test/webhook",
	})
	require.NoError(t, err)

	assert.Equal(t, "pref-123", pref.ID)
	assert.Equal(t, "https://mp.test/init", pref.InitPoint)
	assert.Equal(t, "https://mp.test/sandbox", pref.SandboxInitPoint)
}

func TestClient_CreatePreference_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{AccessToken: "TEST-TOKEN", BaseURL: srv.URL})

	_, err := client.CreatePreference(context.Background(), &payment.PreferenceRequest{
		Title:     "Ingresso - Lual na Praia",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(100),
		Currency:  "BRL",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without preference id")
}

func TestClient_GetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payments/123456789", r.URL.Path)
		assert.Equal(t, "Bearer TEST-TOKEN", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":123456789,"status":"approved","status_detail":"accredited","transaction_amount":100.5,"currency_id":"BRL","payer":{"email":"buyer@example.com"}}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{AccessToken: "TEST-TOKEN", BaseURL: srv.URL})

	p, err := client.GetPayment(context.Background(), "123456789")
	require.NoError(t, err)

	assert.Equal(t, "123456789", p.ID)
	assert.Equal(t, payment.StatusApproved, p.Status)
	assert.True(t, p.Approved())
	assert.Equal(t, "accredited", p.StatusDetail)
	assert.Equal(t, "buyer@example.com", p.PayerEmail)
	assert.True(t, p.Amount.Equal(decimal.NewFromFloat(100.5)))
	assert.Equal(t, "BRL", p.Currency)
}

func TestClient_GetPayment_FlatPayerEmailFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"status":"APPROVED","payer_email":"flat@example.com","payer":{}}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{AccessToken: "TEST-TOKEN", BaseURL: srv.URL})

	p, err := client.GetPayment(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, "flat@example.com", p.PayerEmail)
	assert.True(t, p.Approved(), "status casing must not matter")
}

func TestClient_GetPayment_Pending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":555,"status":"pending","status_detail":"pending_waiting_payment"}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{AccessToken: "TEST-TOKEN", BaseURL: srv.URL})

	p, err := client.GetPayment(context.Background(), "555")
	require.NoError(t, err)

	assert.Equal(t, payment.StatusPending, p.Status)
	assert.False(t, p.Approved())
}

func TestClient_GetPayment_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Payment not found","error":"not_found","status":404}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{AccessToken: "TEST-TOKEN", BaseURL: srv.URL})

	_, err := client.GetPayment(context.Background(), "999")
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
}

func TestClient_GetPayment_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(&Config{AccessToken: "BAD-TOKEN", BaseURL: srv.URL})

	_, err := client.GetPayment(context.Background(), "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestDisabledGateway(t *testing.T) {
	var gw payment.Gateway = payment.Disabled{}

	_, err := gw.CreatePreference(context.Background(), &payment.PreferenceRequest{})
	assert.ErrorIs(t, err, payment.ErrGatewayDisabled)

	_, err = gw.GetPayment(context.Background(), "123")
	assert.ErrorIs(t, err, payment.ErrGatewayDisabled)

	assert.Equal(t, payment.ProviderDisabled, gw.Provider())
}
