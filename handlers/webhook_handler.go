package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"ingressos/models"
	"ingressos/monitoring"
	"ingressos/services"
)

type WebhookHandler struct {
	issue *services.IssueService
}

func NewWebhookHandler(issue *services.IssueService) *WebhookHandler {
	return &WebhookHandler{issue: issue}
}

// HandleNotification - Receive a payment provider notification
//
// Always acknowledges with 200. Anything else triggers provider retry
// storms, and no failure in here gets better by being retried at the
// HTTP layer.
func (h *WebhookHandler) HandleNotification(e *core.RequestEvent) error {
	started := time.Now()
	defer func() {
		monitoring.ObserveWebhookDuration(time.Since(started))
	}()

	var notification models.WebhookNotification
	decoder := json.NewDecoder(e.Request.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&notification); err != nil {
		// Empty and malformed bodies are dropped, the id may still
		// arrive as query parameters below.
		e.App.Logger().Debug("webhook body not decodable", "error", err)
	}

	paymentID := notification.PaymentID()
	if paymentID == "" {
		query := e.Request.URL.Query()
		if query.Get("topic") == "payment" {
			paymentID = query.Get("id")
		}
	}

	if paymentID == "" {
		monitoring.TrackWebhook("no_payment_id")
		return e.String(http.StatusOK, "OK")
	}

	if _, err := h.issue.ProcessPayment(e.Request.Context(), paymentID); err != nil {
		e.App.Logger().Error("webhook processing failed", "paymentRef", paymentID, "error", err)
	}

	return e.String(http.StatusOK, "OK")
}
