package services

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"time"

	"github.com/pocketbase/pocketbase/tools/mailer"

	"ingressos/config"
	"ingressos/models"
)

var (
	// ErrMailDisabled reports that no mail credentials are configured.
	ErrMailDisabled = errors.New("mail delivery disabled: missing credentials")

	// ErrNoRecipient reports that the ticket has no usable buyer address.
	ErrNoRecipient = errors.New("ticket has no buyer email")
)

// NotifyService emails issued tickets to buyers.
type NotifyService struct {
	client   mailer.Mailer
	from     mail.Address
	template string
	timeout  time.Duration
	enabled  bool
}

func NewNotifyService(client mailer.Mailer, cfg *config.Config) *NotifyService {
	timeout := cfg.MailTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &NotifyService{
		client: client,
		from: mail.Address{
			Name:    cfg.SenderName,
			Address: cfg.EmailUser,
		},
		template: cfg.TicketTemplate,
		timeout:  timeout,
		enabled:  cfg.EmailUser != "" && cfg.EmailPass != "",
	}
}

// SendTicket emails the ticket code to the buyer, attaching the stamped image
// when one exists and the plain template otherwise. Returns ErrMailDisabled
// or ErrNoRecipient when there is nothing to send; issuance already happened
// and callers treat both as a skip.
func (s *NotifyService) SendTicket(ticket *models.Ticket, artifactPath string) error {
	if !s.enabled {
		return ErrMailDisabled
	}
	if ticket.BuyerEmail == "" || ticket.BuyerEmail == NoEmail {
		return ErrNoRecipient
	}

	body := fmt.Sprintf(
		"Hello!\n\nYour payment was approved and your ticket is confirmed.\n\nTicket code: %s\n\nPresent this code (or the attached image) at the entrance.\n\nSee you there!",
		ticket.Code,
	)

	message := &mailer.Message{
		From:    s.from,
		To:      []mail.Address{{Address: ticket.BuyerEmail}},
		Subject: fmt.Sprintf("Your ticket - %s", ticket.Code),
		Text:    body,
	}

	attachmentPath := artifactPath
	if attachmentPath == "" {
		attachmentPath = s.template
	}
	if f, err := os.Open(attachmentPath); err == nil {
		defer f.Close()
		message.Attachments = map[string]io.Reader{
			filepath.Base(attachmentPath): f,
		}
	}

	// The SMTP client has no context support, so the send runs under a
	// deadline of its own. The buffered channel lets a late send return
	// without leaking the goroutine.
	sendErr := make(chan error, 1)
	go func() { sendErr <- s.client.Send(message) }()

	select {
	case err := <-sendErr:
		if err != nil {
			return fmt.Errorf("sendTicket %s: %w", ticket.Code, err)
		}
		return nil
	case <-time.After(s.timeout):
		return fmt.Errorf("sendTicket %s: timed out after %s", ticket.Code, s.timeout)
	}
}
