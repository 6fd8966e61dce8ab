package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"ingressos/internal/payment"
	"ingressos/models"
	"ingressos/monitoring"
	"ingressos/utils"
)

// Artifacts renders the stamped ticket image.
type Artifacts interface {
	Generate(code string) (string, error)
}

// Notifier delivers issued tickets to buyers.
type Notifier interface {
	SendTicket(ticket *models.Ticket, artifactPath string) error
}

// IssueService drives a webhook notification end to end: look up the payment,
// issue exactly one ticket per approved payment, then best-effort image and
// email delivery.
type IssueService struct {
	app       core.App
	gateway   payment.Gateway
	tickets   *TicketService
	artifacts Artifacts
	notify    Notifier
	breaker   *utils.CircuitBreaker
}

func NewIssueService(app core.App, gateway payment.Gateway, tickets *TicketService, artifacts Artifacts, notify Notifier) *IssueService {
	return &IssueService{
		app:       app,
		gateway:   gateway,
		tickets:   tickets,
		artifacts: artifacts,
		notify:    notify,
		breaker:   utils.NewCircuitBreaker("payment-lookups"),
	}
}

// ProcessPayment handles one webhook notification for a provider payment id.
// It returns the issued ticket when this delivery created one, and nil on the
// no-op paths: unknown payments, unapproved payments, replays. Only a failed
// insert comes back as an error; everything after the insert is best effort
// and the ticket row stays the source of truth.
func (s *IssueService) ProcessPayment(ctx context.Context, paymentID string) (*models.Ticket, error) {
	log := s.app.Logger()

	// Replay check before touching the gateway. Providers redeliver
	// aggressively and none of those lookups would change anything.
	existing, err := s.tickets.FindByPaymentRef(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Info("webhook replay ignored, ticket already issued",
			"paymentRef", paymentID,
			"code", existing.Code,
		)
		monitoring.TrackWebhook("replayed")
		return nil, nil
	}

	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.gateway.GetPayment(ctx, paymentID)
	})
	monitoring.SetBreakerState(int(s.breaker.State()))
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrBreakerOpen):
			monitoring.TrackPaymentLookup("breaker_open")
		case errors.Is(err, payment.ErrPaymentNotFound):
			monitoring.TrackPaymentLookup("not_found")
		default:
			monitoring.TrackPaymentLookup("error")
		}
		monitoring.TrackWebhook("lookup_failed")
		log.Error("payment lookup failed", "paymentRef", paymentID, "error", err)

		// Acknowledged anyway; the provider redelivers until we catch up.
		return nil, nil
	}
	monitoring.TrackPaymentLookup("ok")

	info := result.(*payment.Payment)
	if !info.Approved() {
		log.Info("payment not approved, nothing to issue",
			"paymentRef", paymentID,
			"status", info.Status,
		)
		monitoring.TrackWebhook("not_approved")
		return nil, nil
	}

	ticket, err := s.tickets.Issue(ctx, IssueParams{
		BuyerEmail: info.PayerEmail,
		PaymentRef: paymentID,
	})
	if err != nil {
		if errors.Is(err, ErrTicketExists) {
			log.Info("concurrent delivery already issued ticket", "paymentRef", paymentID)
			monitoring.TrackWebhook("replayed")
			return nil, nil
		}
		monitoring.TrackWebhook("store_failed")
		return nil, fmt.Errorf("processPayment %s: %w", paymentID, err)
	}

	monitoring.TrackTicketIssued()
	monitoring.TrackWebhook("issued")
	log.Info("ticket issued",
		"code", ticket.Code,
		"seq", ticket.Seq,
		"paymentRef", paymentID,
		"buyer", ticket.BuyerEmail,
	)

	artifactPath := s.generateArtifact(ticket)
	s.sendEmail(ticket, artifactPath)

	return ticket, nil
}

func (s *IssueService) generateArtifact(ticket *models.Ticket) string {
	path, err := s.artifacts.Generate(ticket.Code)
	switch {
	case err == nil:
		monitoring.TrackArtifact("ok")
		return path
	case errors.Is(err, ErrArtifactsDisabled):
		monitoring.TrackArtifact("skipped")
		return ""
	default:
		s.app.Logger().Warn("ticket image generation failed", "code", ticket.Code, "error", err)
		monitoring.TrackArtifact("error")
		return ""
	}
}

func (s *IssueService) sendEmail(ticket *models.Ticket, artifactPath string) {
	err := s.notify.SendTicket(ticket, artifactPath)
	switch {
	case err == nil:
		monitoring.TrackEmail("ok")
	case errors.Is(err, ErrMailDisabled), errors.Is(err, ErrNoRecipient):
		s.app.Logger().Info("ticket email skipped", "code", ticket.Code, "reason", err)
		monitoring.TrackEmail("skipped")
	default:
		s.app.Logger().Warn("ticket email failed", "code", ticket.Code, "error", err)
		monitoring.TrackEmail("error")
	}
}
