package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"ingressos/config"
	"ingressos/models"
)

// ErrTicketExists reports that a ticket for the payment reference was already
// issued. Webhook replays end up here and must stay silent.
var ErrTicketExists = errors.New("ticket already issued for payment reference")

// NoEmail marks tickets sold without a usable buyer address.
const NoEmail = "no-email@local"

// TicketService owns the tickets collection: sequencing, code formatting and
// lookups.
type TicketService struct {
	app    core.App
	event  string
	prefix string
}

func NewTicketService(app core.App, cfg *config.Config) *TicketService {
	return &TicketService{
		app:    app,
		event:  cfg.EventName,
		prefix: cfg.TicketPrefix,
	}
}

// FormatCode renders a ticket code: prefix plus the sequence padded to four
// digits. Larger sequences keep all their digits (LUAL10000).
func FormatCode(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// Event returns the event name the service issues for.
func (s *TicketService) Event() string {
	return s.event
}

// FormatCode renders a code for the configured prefix.
func (s *TicketService) FormatCode(seq int) string {
	return FormatCode(s.prefix, seq)
}

// MaxSeq returns the highest sequence issued for the event, zero when none.
func (s *TicketService) MaxSeq(ctx context.Context, event string) (int, error) {
	return maxSeq(ctx, s.app.DB(), event)
}

// NextSeq returns the sequence the next issued ticket would take. Purely
// informational; Issue allocates inside its own transaction.
func (s *TicketService) NextSeq(ctx context.Context, event string) (int, error) {
	highest, err := s.MaxSeq(ctx, event)
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}

func maxSeq(ctx context.Context, db dbx.Builder, event string) (int, error) {
	var highest int
	err := db.NewQuery("SELECT COALESCE(MAX(seq), 0) FROM tickets WHERE event = {:event}").
		Bind(dbx.Params{"event": event}).
		WithContext(ctx).
		Row(&highest)
	if err != nil {
		return 0, fmt.Errorf("maxSeq: %w", err)
	}
	return highest, nil
}

type IssueParams struct {
	BuyerEmail string
	PaymentRef string
}

// Issue allocates the next sequence and inserts the ticket. Sequencing and
// insert share one transaction so concurrent deliveries cannot observe the
// same max. A duplicate payment reference surfaces as ErrTicketExists along
// with the existing row.
func (s *TicketService) Issue(ctx context.Context, params IssueParams) (*models.Ticket, error) {
	buyerEmail := params.BuyerEmail
	if buyerEmail == "" {
		buyerEmail = NoEmail
	}

	var issued *models.Ticket
	txErr := s.app.RunInTransaction(func(txApp core.App) error {
		highest, err := maxSeq(ctx, txApp.DB(), s.event)
		if err != nil {
			return err
		}
		seq := highest + 1

		collection, err := txApp.FindCollectionByNameOrId("tickets")
		if err != nil {
			return fmt.Errorf("issue: find collection: %w", err)
		}

		record := core.NewRecord(collection)
		record.Set("event", s.event)
		record.Set("seq", seq)
		record.Set("code", FormatCode(s.prefix, seq))
		record.Set("buyer_email", buyerEmail)
		record.Set("status", models.TicketStatusPaid)
		record.Set("payment_ref", params.PaymentRef)

		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("issue: save: %w", err)
		}

		issued = ticketFromRecord(record)
		return nil
	})
	if txErr == nil {
		return issued, nil
	}

	// A failed insert usually means another delivery won the race. Classify
	// against committed state instead of parsing driver errors.
	if existing, err := s.FindByPaymentRef(ctx, params.PaymentRef); err == nil && existing != nil {
		return existing, ErrTicketExists
	}
	return nil, txErr
}

// FindByPaymentRef returns the ticket issued for a provider payment id, or
// nil when none exists. Empty references never match; rows without a payment
// reference are not reachable this way.
func (s *TicketService) FindByPaymentRef(ctx context.Context, paymentRef string) (*models.Ticket, error) {
	if paymentRef == "" {
		return nil, nil
	}
	return s.findFirst(ctx, "payment_ref = {:v}", paymentRef)
}

// FindByCode returns the ticket carrying the code, or nil when none exists.
func (s *TicketService) FindByCode(ctx context.Context, code string) (*models.Ticket, error) {
	if code == "" {
		return nil, nil
	}
	return s.findFirst(ctx, "code = {:v}", code)
}

func (s *TicketService) findFirst(_ context.Context, filter, value string) (*models.Ticket, error) {
	record, err := s.app.FindFirstRecordByFilter("tickets", filter, dbx.Params{"v": value})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return ticketFromRecord(record), nil
}

// List returns every issued ticket, most recent first.
func (s *TicketService) List(ctx context.Context) ([]*models.Ticket, error) {
	tickets := []*models.Ticket{}
	err := s.app.DB().
		Select("id", "event", "seq", "code", "buyer_email", "status", "payment_ref", "created").
		From("tickets").
		OrderBy("created DESC", "seq DESC").
		All(&tickets)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func ticketFromRecord(record *core.Record) *models.Ticket {
	return &models.Ticket{
		ID:         record.Id,
		Event:      record.GetString("event"),
		Seq:        record.GetInt("seq"),
		Code:       record.GetString("code"),
		BuyerEmail: record.GetString("buyer_email"),
		Status:     record.GetString("status"),
		PaymentRef: record.GetString("payment_ref"),
		Created:    record.GetDateTime("created"),
	}
}
