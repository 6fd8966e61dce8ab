package models

import (
	"github.com/pocketbase/pocketbase/tools/types"
)

const TicketStatusPaid = "paid"

// Ticket is one issued admission, keyed by the provider payment that paid for it.
type Ticket struct {
	ID         string         `db:"id" json:"id"`
	Event      string         `db:"event" json:"event"`
	Seq        int            `db:"seq" json:"seq"`
	Code       string         `db:"code" json:"code"`
	BuyerEmail string         `db:"buyer_email" json:"buyer_email"`
	Status     string         `db:"status" json:"status"` // paid
	PaymentRef string         `db:"payment_ref" json:"payment_ref"`
	Created    types.DateTime `db:"created" json:"created_at"`
}
