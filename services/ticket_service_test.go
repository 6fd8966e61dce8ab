package services

import (
	"context"
	"testing"

	"github.com/pocketbase/pocketbase/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingressos/config"
	_ "ingressos/migrations"
)

func testConfig() *config.Config {
	return &config.Config{
		EventName:    "Lual na Praia",
		TicketPrefix: "LUAL",
	}
}

func newTestApp(t testing.TB) *tests.TestApp {
	app, err := tests.NewTestApp(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)
	return app
}

func TestFormatCode(t *testing.T) {
	tests := []struct {
		name     string
		seq      int
		expected string
	}{
		{"First ticket", 1, "LUAL0001"},
		{"Two digits", 23, "LUAL0023"},
		{"Last padded value", 9999, "LUAL9999"},
		{"Beyond padding keeps all digits", 10000, "LUAL10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCode("LUAL", tt.seq))
		})
	}
}

func TestTicketService_FormatCode_UsesConfiguredPrefix(t *testing.T) {
	app := newTestApp(t)
	cfg := testConfig()
	cfg.TicketPrefix = "FEST"

	service := NewTicketService(app, cfg)

	assert.Equal(t, "FEST0007", service.FormatCode(7))
}

func TestTicketService_Issue_SequencesFromOne(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ticket, err := service.Issue(ctx, IssueParams{
			BuyerEmail: "buyer@example.com",
			PaymentRef: "payment-" + service.FormatCode(i),
		})
		require.NoError(t, err)
		require.NotNil(t, ticket)

		assert.Equal(t, i, ticket.Seq)
		assert.Equal(t, service.FormatCode(i), ticket.Code)
		assert.Equal(t, "Lual na Praia", ticket.Event)
		assert.Equal(t, "paid", ticket.Status)
		assert.NotEmpty(t, ticket.ID)
	}

	max, err := service.MaxSeq(ctx, service.Event())
	require.NoError(t, err)
	assert.Equal(t, 3, max)
}

func TestTicketService_Issue_DuplicatePaymentRef(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())
	ctx := context.Background()

	first, err := service.Issue(ctx, IssueParams{
		BuyerEmail: "buyer@example.com",
		PaymentRef: "mp-123456789",
	})
	require.NoError(t, err)

	replay, err := service.Issue(ctx, IssueParams{
		BuyerEmail: "buyer@example.com",
		PaymentRef: "mp-123456789",
	})
	require.ErrorIs(t, err, ErrTicketExists)
	require.NotNil(t, replay)
	assert.Equal(t, first.Code, replay.Code)
	assert.Equal(t, first.Seq, replay.Seq)

	// The failed insert must not have consumed a sequence.
	max, err := service.MaxSeq(ctx, service.Event())
	require.NoError(t, err)
	assert.Equal(t, 1, max)
}

func TestTicketService_Issue_EmptyBuyerEmail(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())

	ticket, err := service.Issue(context.Background(), IssueParams{
		BuyerEmail: "",
		PaymentRef: "mp-without-email",
	})
	require.NoError(t, err)

	assert.Equal(t, NoEmail, ticket.BuyerEmail)
}

func TestTicketService_Issue_EmptyPaymentRefNeverCollides(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())
	ctx := context.Background()

	first, err := service.Issue(ctx, IssueParams{BuyerEmail: "a@example.com"})
	require.NoError(t, err)

	second, err := service.Issue(ctx, IssueParams{BuyerEmail: "b@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, 2, second.Seq)

	found, err := service.FindByPaymentRef(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestTicketService_MaxSeq_EmptyStore(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())
	ctx := context.Background()

	max, err := service.MaxSeq(ctx, service.Event())
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	next, err := service.NextSeq(ctx, service.Event())
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestTicketService_MaxSeq_ScopedToEvent(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())
	ctx := context.Background()

	_, err := service.Issue(ctx, IssueParams{
		BuyerEmail: "buyer@example.com",
		PaymentRef: "mp-1",
	})
	require.NoError(t, err)

	max, err := service.MaxSeq(ctx, "Some Other Event")
	require.NoError(t, err)
	assert.Equal(t, 0, max)
}

func TestTicketService_FindByPaymentRef(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())
	ctx := context.Background()

	issued, err := service.Issue(ctx, IssueParams{
		BuyerEmail: "buyer@example.com",
		PaymentRef: "mp-42",
	})
	require.NoError(t, err)

	found, err := service.FindByPaymentRef(ctx, "mp-42")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, issued.Code, found.Code)
	assert.Equal(t, issued.ID, found.ID)

	missing, err := service.FindByPaymentRef(ctx, "mp-unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketService_FindByCode(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())
	ctx := context.Background()

	issued, err := service.Issue(ctx, IssueParams{
		BuyerEmail: "buyer@example.com",
		PaymentRef: "mp-7",
	})
	require.NoError(t, err)

	found, err := service.FindByCode(ctx, issued.Code)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "mp-7", found.PaymentRef)

	missing, err := service.FindByCode(ctx, "LUAL9999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketService_List_MostRecentFirst(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := service.Issue(ctx, IssueParams{
			BuyerEmail: "buyer@example.com",
			PaymentRef: "mp-" + service.FormatCode(i),
		})
		require.NoError(t, err)
	}

	tickets, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 3)

	// Issued within the same timestamp granularity, so the seq tiebreaker
	// keeps the newest ticket first.
	assert.Equal(t, 3, tickets[0].Seq)
	assert.Equal(t, 2, tickets[1].Seq)
	assert.Equal(t, 1, tickets[2].Seq)
	assert.Equal(t, "LUAL0003", tickets[0].Code)
}

func TestTicketService_List_Empty(t *testing.T) {
	app := newTestApp(t)
	service := NewTicketService(app, testConfig())

	tickets, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tickets)
}
