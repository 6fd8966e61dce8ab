package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ingressos/config"
	"ingressos/internal/payment"
	"ingressos/models"
	"ingressos/monitoring"
)

type CheckoutHandler struct {
	cfg     *config.Config
	gateway payment.Gateway
}

func NewCheckoutHandler(cfg *config.Config, gateway payment.Gateway) *CheckoutHandler {
	return &CheckoutHandler{
		cfg:     cfg,
		gateway: gateway,
	}
}

// CreatePreference - Start a checkout for one ticket
func (h *CheckoutHandler) CreatePreference(e *core.RequestEvent) error {
	var req models.CheckoutRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		monitoring.TrackCheckout("rejected")
		return apis.NewBadRequestError("Email is required", nil)
	}

	event := req.Event
	if event == "" {
		event = h.cfg.EventName
	}
	price := req.Price
	if price.IsZero() {
		price = h.cfg.TicketPrice
	}

	base := baseURL(h.cfg, e)

	pref, err := h.gateway.CreatePreference(e.Request.Context(), &payment.PreferenceRequest{
		Title:           "Ingresso - " + event,
		Quantity:        1,
		UnitPrice:       price,
		Currency:        h.cfg.Currency,
		PayerEmail:      req.Email,
		SuccessURL:      base + "/success",
		FailureURL:      base + "/",
		NotificationURL: base + "/webhook",
	})
	if err != nil {
		monitoring.TrackCheckout("error")
		e.App.Logger().Error("checkout preference failed", "email", req.Email, "error", err)
		return apis.NewApiError(http.StatusInternalServerError, "Could not start checkout", err)
	}

	monitoring.TrackCheckout("ok")
	return e.JSON(http.StatusOK, models.CheckoutResponse{
		ID:        pref.ID,
		InitPoint: pref.InitPoint,
		Sandbox:   pref.SandboxInitPoint,
	})
}

// baseURL resolves the externally visible origin used in redirect and
// webhook URLs. A configured PUBLIC_BASE_URL wins over anything derived
// from the incoming request, which matters behind proxies.
func baseURL(cfg *config.Config, e *core.RequestEvent) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if e.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + e.Request.Host
}
