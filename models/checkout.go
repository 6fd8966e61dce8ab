package models

import (
	"github.com/shopspring/decimal"
)

type CheckoutRequest struct {
	Email string          `json:"email" form:"email"`
	Event string          `json:"event" form:"event"`
	Price decimal.Decimal `json:"price" form:"price"`
}

// CheckoutResponse carries the created preference and its redirect targets.
// Sandbox points at the provider's test checkout and is only set when the
// gateway returns one.
type CheckoutResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
	Sandbox   string `json:"sandbox,omitempty"`
}
