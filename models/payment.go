package models

import (
	"github.com/spf13/cast"
)

// WebhookNotification mirrors the loosely typed bodies Mercado Pago posts to
// notification URLs. Identifiers arrive as strings or numbers depending on the
// notification flavor, so they stay untyped until extraction.
type WebhookNotification struct {
	ID     any    `json:"id"`
	Type   string `json:"type"`   // "payment" on the data.id flavor
	Topic  string `json:"topic"`  // "payment" on the merchant-order flavor
	Action string `json:"action"` // e.g. "payment.updated", informational only
	Data   struct {
		ID any `json:"id"`
	} `json:"data"`
}

// PaymentID extracts the provider payment id from the notification body.
// Returns "" when the body carries no usable id; callers may still fall back
// to query string parameters.
func (n WebhookNotification) PaymentID() string {
	if n.Type == "payment" {
		if id := cast.ToString(n.Data.ID); id != "" {
			return id
		}
	}
	if n.Topic == "payment" {
		if id := cast.ToString(n.ID); id != "" {
			return id
		}
	}
	return cast.ToString(n.Data.ID)
}
