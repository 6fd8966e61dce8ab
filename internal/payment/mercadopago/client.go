package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"ingressos/internal/payment"
)

type Config struct {
	AccessToken string `json:"accessToken" mapstructure:"access_token"`
	BaseURL     string `json:"baseUrl" mapstructure:"base_url"`
}

// Client talks to the Mercado Pago REST API.
type Client struct {
	// baseURL is the base url of the Mercado Pago API.
	baseURL string

	// accessToken authenticates every request as a Bearer token.
	accessToken string

	// hc is the http client.
	hc *http.Client
}

// NewClient creates a new Mercado Pago client.
func NewClient(c *Config) *Client {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: c.AccessToken,

		// set http client with timeout.
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Provider() payment.Provider {
	return payment.ProviderMercadoPago
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type preferenceForm struct {
	Items []preferenceItem `json:"items"`
	Payer struct {
		Email string `json:"email"`
	} `json:"payer"`
	BackURLs struct {
		Success string `json:"success"`
		Failure string `json:"failure"`
	} `json:"back_urls"`
	AutoReturn      string `json:"auto_return"`
	NotificationURL string `json:"notification_url,omitempty"`
}

// CreatePreference registers a checkout preference with Mercado Pago and
// returns its id and redirect URLs.
func (c *Client) CreatePreference(ctx context.Context, f *payment.PreferenceRequest) (*payment.Preference, error) {
	form := preferenceForm{
		Items: []preferenceItem{{
			Title:      f.Title,
			Quantity:   f.Quantity,
			CurrencyID: f.Currency,
			UnitPrice:  f.UnitPrice.InexactFloat64(),
		}},
		AutoReturn:      "approved",
		NotificationURL: f.NotificationURL,
	}
	form.Payer.Email = f.PayerEmail
	form.BackURLs.Success = f.SuccessURL
	form.BackURLs.Failure = f.FailureURL

	body, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("createPreference: json.Marshal: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("createPreference: http.NewReq: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("X-Idempotency-Key", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("createPreference: http.Do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.New("createPreference: resp.StatusCode: 401 => check access token")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("createPreference: unexpected status code: %d", resp.StatusCode)
	}

	var reply struct {
		ID               string `json:"id"`
		InitPoint        string `json:"init_point"`
		SandboxInitPoint string `json:"sandbox_init_point"`
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("createPreference: json.Decode: %v", err)
	}
	if reply.ID == "" {
		return nil, errors.New("createPreference: reply without preference id")
	}

	return &payment.Preference{
		ID:               reply.ID,
		InitPoint:        reply.InitPoint,
		SandboxInitPoint: reply.SandboxInitPoint,
	}, nil
}

// GetPayment fetches the current state of a payment by provider id.
func (c *Client) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/payments/%s", c.baseURL, url.PathEscape(id)), nil)
	if err != nil {
		return nil, fmt.Errorf("getPayment: http.NewReq: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getPayment: http.Do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.New("getPayment: resp.StatusCode: 401 => check access token")
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("getPayment: id %s: %w", id, payment.ErrPaymentNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getPayment: unexpected status code: %d", resp.StatusCode)
	}

	var reply struct {
		ID                any             `json:"id"`
		Status            string          `json:"status"`
		StatusDetail      string          `json:"status_detail"`
		TransactionAmount decimal.Decimal `json:"transaction_amount"`
		CurrencyID        string          `json:"currency_id"`
		PayerEmail        string          `json:"payer_email"`
		Payer             struct {
			Email string `json:"email"`
		} `json:"payer"`
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("getPayment: json.Decode: %v", err)
	}

	// Some payment flavors omit payer.email and carry a flat payer_email.
	email := reply.Payer.Email
	if email == "" {
		email = reply.PayerEmail
	}

	return &payment.Payment{
		ID:           cast.ToString(reply.ID),
		Status:       reply.Status,
		StatusDetail: reply.StatusDetail,
		PayerEmail:   email,
		Amount:       reply.TransactionAmount,
		Currency:     reply.CurrencyID,
	}, nil
}
