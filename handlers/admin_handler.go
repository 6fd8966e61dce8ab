package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/template"

	"ingressos/config"
	"ingressos/security"
	"ingressos/services"
)

type AdminHandler struct {
	cfg      *config.Config
	tickets  *services.TicketService
	registry *template.Registry
}

func NewAdminHandler(cfg *config.Config, tickets *services.TicketService) *AdminHandler {
	return &AdminHandler{
		cfg:      cfg,
		tickets:  tickets,
		registry: template.NewRegistry(),
	}
}

// LoginPage - Render the admin login form
func (h *AdminHandler) LoginPage(e *core.RequestEvent) error {
	if h.hasValidSession(e) {
		return e.Redirect(http.StatusFound, "/admin")
	}
	return h.renderLogin(e, http.StatusOK, "")
}

// Login - Check credentials and start an admin session
func (h *AdminHandler) Login(e *core.RequestEvent) error {
	var form struct {
		User string `form:"user" json:"user"`
		Pass string `form:"pass" json:"pass"`
	}
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	// Single generic failure message, no hint about which field was wrong.
	if form.User != h.cfg.AdminUser || !security.VerifyPassword(h.cfg.AdminPass, form.Pass) {
		e.App.Logger().Info("admin login rejected", "user", form.User, "ip", security.ClientIP(e.Request))
		return h.renderLogin(e, http.StatusUnauthorized, "Invalid credentials.")
	}

	token, err := security.NewSessionToken(form.User, h.cfg.SecretKey, h.cfg.SessionTTL)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to start session", err)
	}

	http.SetCookie(e.Response, &http.Cookie{
		Name:     security.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	e.App.Logger().Info("admin login", "user", form.User)
	return e.Redirect(http.StatusFound, "/admin")
}

// Logout - Clear the admin session
func (h *AdminHandler) Logout(e *core.RequestEvent) error {
	http.SetCookie(e.Response, &http.Cookie{
		Name:     security.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return e.Redirect(http.StatusFound, "/admin/login")
}

// Dashboard - Render all issued tickets, most recent first
func (h *AdminHandler) Dashboard(e *core.RequestEvent) error {
	tickets, err := h.tickets.List(e.Request.Context())
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load tickets", err)
	}

	html, err := h.registry.LoadString(adminPage).Render(map[string]any{
		"Event":   h.cfg.EventName,
		"Count":   len(tickets),
		"Tickets": tickets,
	})
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to render page", err)
	}
	return e.HTML(http.StatusOK, html)
}

// ListTickets - Return all issued tickets as JSON, most recent first
func (h *AdminHandler) ListTickets(e *core.RequestEvent) error {
	tickets, err := h.tickets.List(e.Request.Context())
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load tickets", err)
	}
	return e.JSON(http.StatusOK, tickets)
}

// RequireSession - Route middleware sending browsers back to the login form
func (h *AdminHandler) RequireSession(e *core.RequestEvent) error {
	if !h.hasValidSession(e) {
		return e.Redirect(http.StatusFound, "/admin/login")
	}
	return e.Next()
}

// RequireSessionAPI - Route middleware for the JSON endpoints
func (h *AdminHandler) RequireSessionAPI(e *core.RequestEvent) error {
	if !h.hasValidSession(e) {
		return apis.NewUnauthorizedError("Admin session required", nil)
	}
	return e.Next()
}

func (h *AdminHandler) hasValidSession(e *core.RequestEvent) bool {
	cookie, err := e.Request.Cookie(security.SessionCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = security.ParseSessionToken(cookie.Value, h.cfg.SecretKey)
	return err == nil
}

func (h *AdminHandler) renderLogin(e *core.RequestEvent, status int, message string) error {
	html, err := h.registry.LoadString(loginPage).Render(map[string]any{
		"Error": message,
	})
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to render page", err)
	}
	return e.HTML(status, html)
}
