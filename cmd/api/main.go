package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stripe/stripe-go/v82/client"

	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/config"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/handler"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/logging"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/middleware"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/service"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/webhook"
)

const (
	serviceName = "superspeedysolutions-payment-api"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init(serviceName, cfg.LogLevel, cfg.AppEnv)

	verifier, err := buildVerifier(cfg)
	if err != nil {
		slog.Error("webhook verification misconfigured, refusing to start", "error", err)
		os.Exit(1)
	}

	stripeClient := &client.API{}
	stripeClient.Init(cfg.StripeSecretKey, nil)

	checkout := service.NewCheckoutService(stripeClient, cfg)
	records := service.NewRecordClient(cfg.RecordAPIURL)
	billing := service.NewBillingService(records)

	registry := webhook.NewRegistry(slog.Default())
	registry.Register("checkout.session.completed", billing.HandleCheckoutCompleted)
	registry.Register("customer.subscription.created", billing.HandleSubscriptionCreated)

	healthHandler := handler.NewHealthHandler(serviceName, version)
	checkoutHandler := handler.NewCheckoutHandler(checkout)
	webhookHandler := handler.NewWebhookHandler(verifier, registry)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", healthHandler.Status)
	mux.HandleFunc("GET /health", healthHandler.Status)
	mux.HandleFunc("POST /create-checkout", checkoutHandler.CreateCheckout)
	mux.HandleFunc("POST /verify-payment", checkoutHandler.VerifyPayment)
	mux.HandleFunc("POST /webhook", webhookHandler.ReceiveStripeWebhook)

	var root http.Handler = mux
	root = middleware.CORS(cfg.AllowedOrigins)(root)
	root = middleware.Recovery(root)
	root = middleware.Logging(root)
	root = middleware.Tracing(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// buildVerifier fails closed: a missing webhook secret stops the process
// unless the development-only unverified mode was explicitly enabled.
func buildVerifier(cfg *config.Config) (*webhook.Verifier, error) {
	if cfg.AllowUnverifiedWebhooks {
		slog.Warn("webhook signature verification is DISABLED, development use only")
		return webhook.NewInsecureVerifier(), nil
	}
	return webhook.NewVerifier(cfg.StripeWebhookSecret, time.Duration(cfg.WebhookToleranceS)*time.Second)
}
