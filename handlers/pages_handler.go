package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/template"

	"ingressos/config"
)

type PagesHandler struct {
	cfg      *config.Config
	registry *template.Registry
}

func NewPagesHandler(cfg *config.Config) *PagesHandler {
	return &PagesHandler{
		cfg:      cfg,
		registry: template.NewRegistry(),
	}
}

// Index - Landing page with the buy form
func (h *PagesHandler) Index(e *core.RequestEvent) error {
	html, err := h.registry.LoadString(indexPage).Render(map[string]any{
		"Event":    h.cfg.EventName,
		"Date":     h.cfg.EventDate,
		"Price":    h.cfg.TicketPrice.StringFixed(2),
		"Currency": h.cfg.Currency,
	})
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to render page", err)
	}
	return e.HTML(http.StatusOK, html)
}

// Success - Landing page after the provider redirects back
func (h *PagesHandler) Success(e *core.RequestEvent) error {
	html, err := h.registry.LoadString(successPage).Render(map[string]any{
		"Event": h.cfg.EventName,
	})
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to render page", err)
	}
	return e.HTML(http.StatusOK, html)
}
