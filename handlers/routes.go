package handlers

import (
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"ingressos/config"
	"ingressos/internal/payment"
	"ingressos/security"
	"ingressos/services"
	"ingressos/utils"
)

// Register mounts the sales, webhook, admin and operational routes.
func Register(
	se *core.ServeEvent,
	cfg *config.Config,
	gateway payment.Gateway,
	tickets *services.TicketService,
	issue *services.IssueService,
	limiter security.Limiter,
	redisClient *redis.Client,
) {
	pages := NewPagesHandler(cfg)
	checkout := NewCheckoutHandler(cfg, gateway)
	webhook := NewWebhookHandler(issue)
	admin := NewAdminHandler(cfg, tickets)

	// Public pages
	se.Router.GET("/", pages.Index)
	se.Router.GET("/success", pages.Success)

	// Checkout and provider notifications. The webhook is never rate
	// limited; dropping a provider delivery loses a sale.
	se.Router.POST("/checkout", checkout.CreatePreference).BindFunc(security.RateLimit(limiter))
	se.Router.POST("/webhook", webhook.HandleNotification)

	// Generated ticket images
	se.Router.GET("/tickets/{path...}", apis.Static(os.DirFS(cfg.ArtifactDir), false))

	// Admin panel
	se.Router.GET("/admin/login", admin.LoginPage)
	se.Router.POST("/admin/login", admin.Login).BindFunc(security.RateLimit(limiter))
	se.Router.GET("/admin/logout", admin.Logout)
	se.Router.GET("/admin", admin.Dashboard).BindFunc(admin.RequireSession)
	se.Router.GET("/api/tickets", admin.ListTickets).BindFunc(admin.RequireSessionAPI)

	// Operational endpoints
	se.Router.GET("/health", health(redisClient))
	if cfg.EnableMetrics {
		se.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
	}
}

func health(redisClient *redis.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if redisClient != nil {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
		}
		return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	}
}
