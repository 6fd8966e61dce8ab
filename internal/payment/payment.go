package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Provider identifies a checkout gateway implementation.
type Provider string

const (
	ProviderMercadoPago Provider = "mercadopago"
	ProviderDisabled    Provider = "disabled"
)

// Payment statuses as reported by the provider.
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusInProcess = "in_process"
	StatusRejected  = "rejected"
)

var (
	// ErrGatewayDisabled is returned when no provider credentials are configured.
	ErrGatewayDisabled = errors.New("payment gateway disabled: no access token configured")

	// ErrPaymentNotFound is returned when the provider does not know the payment id.
	ErrPaymentNotFound = errors.New("payment not found")
)

// PreferenceRequest describes the single-item checkout to create.
type PreferenceRequest struct {
	Title           string
	Quantity        int
	UnitPrice       decimal.Decimal
	Currency        string
	PayerEmail      string
	SuccessURL      string
	FailureURL      string
	NotificationURL string
}

// Preference is a created checkout preference with its redirect targets.
type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

// Payment is the provider-side state of a payment a webhook points at.
type Payment struct {
	ID           string
	Status       string
	StatusDetail string
	PayerEmail   string
	Amount       decimal.Decimal
	Currency     string
}

// Approved reports whether the payment has been fully approved. Any other
// status (pending, in_process, rejected, unknown) must not issue a ticket.
// Providers are inconsistent about casing, so the check ignores it.
func (p *Payment) Approved() bool {
	return strings.EqualFold(p.Status, StatusApproved)
}

// Gateway is the capability interface every checkout provider implements.
type Gateway interface {
	// Provider returns the gateway provider type.
	Provider() Provider

	// CreatePreference registers a checkout preference and returns its
	// redirect URLs.
	CreatePreference(ctx context.Context, req *PreferenceRequest) (*Preference, error)

	// GetPayment fetches the current state of a payment by provider id.
	GetPayment(ctx context.Context, id string) (*Payment, error)
}
