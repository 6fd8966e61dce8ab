package payment

import (
	"context"
)

// Disabled is the gateway used when no provider credentials are configured.
// Checkout fails loudly instead of silently selling free tickets, and webhook
// lookups fail the same way so nothing gets issued.
type Disabled struct{}

func (Disabled) Provider() Provider { return ProviderDisabled }

func (Disabled) CreatePreference(context.Context, *PreferenceRequest) (*Preference, error) {
	return nil, ErrGatewayDisabled
}

func (Disabled) GetPayment(context.Context, string) (*Payment, error) {
	return nil, ErrGatewayDisabled
}
