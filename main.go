package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pbsecurity "github.com/pocketbase/pocketbase/tools/security"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"ingressos/config"
	"ingressos/handlers"
	"ingressos/internal/payment"
	"ingressos/internal/payment/mercadopago"
	_ "ingressos/migrations"
	"ingressos/security"
	"ingressos/services"
	"ingressos/utils"
)

func main() {
	app := pocketbase.New()

	cfg := config.LoadConfig()
	if cfg.SecretKey == "" {
		// Sessions will not survive a restart without a fixed key.
		cfg.SecretKey = pbsecurity.RandomString(50)
		log.Println("SECRET_KEY not set, using a generated one for this run")
	}

	// Default to serving on the configured port when started without args.
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "serve", "--http=0.0.0.0:"+cfg.Port)
	}

	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})
	app.RootCmd.AddCommand(newHashPassCommand())

	// Payment gateway selection
	var gateway payment.Gateway = payment.Disabled{}
	if cfg.MPAccessToken != "" {
		gateway = mercadopago.NewClient(&mercadopago.Config{
			AccessToken: cfg.MPAccessToken,
			BaseURL:     cfg.MPBaseURL,
		})
	} else {
		log.Println("MP_ACCESS_TOKEN not set, checkout is disabled")
	}

	// Image stamping needs the template; fall back to plain tickets
	var artifacts services.Artifacts = services.NewArtifactService(cfg)
	if _, err := os.Stat(cfg.TicketTemplate); err != nil {
		log.Printf("ticket template %s not found, image stamping disabled", cfg.TicketTemplate)
		artifacts = services.DisabledArtifacts{}
	}

	// Redis backed rate limiting; fail open when Redis is not around
	var limiter security.Limiter = security.Unlimited{}
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Redis unavailable, rate limiting disabled: %v", err)
		} else {
			redisClient = client
			limiter = security.NewRedisLimiter(client, cfg.RateLimitPerMin)
			defer redisClient.Close()
		}
	}

	app.OnBootstrap().BindFunc(func(e *core.BootstrapEvent) error {
		if err := e.Next(); err != nil {
			return err
		}
		return applyMailSettings(e.App, cfg)
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		tickets := services.NewTicketService(se.App, cfg)
		notify := services.NewNotifyService(se.App.NewMailClient(), cfg)
		issue := services.NewIssueService(se.App, gateway, tickets, artifacts, notify)

		handlers.Register(se, cfg, gateway, tickets, issue, limiter, redisClient)

		log.Printf("%s ticket sales on port %s (gateway: %s)", cfg.EventName, cfg.Port, gateway.Provider())

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// applyMailSettings enables SMTP delivery when mail credentials are
// configured. Without them PocketBase keeps its default log-only sender and
// the notify service skips sends on its own.
func applyMailSettings(app core.App, cfg *config.Config) error {
	if cfg.EmailUser == "" || cfg.EmailPass == "" {
		return nil
	}

	settings := app.Settings()
	settings.Meta.SenderName = cfg.SenderName
	settings.Meta.SenderAddress = cfg.EmailUser
	settings.SMTP.Enabled = true
	settings.SMTP.Host = cfg.MailServer
	settings.SMTP.Port = cfg.MailPort
	settings.SMTP.TLS = cfg.MailUseTLS
	settings.SMTP.Username = cfg.EmailUser
	settings.SMTP.Password = cfg.EmailPass

	return app.Save(settings)
}

// newHashPassCommand prints a bcrypt hash so ADMIN_PASS does not have to be
// stored in plain text.
func newHashPassCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hashpass [password]",
		Short: "Print a bcrypt hash for ADMIN_PASS",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			hash, err := security.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
