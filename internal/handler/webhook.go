package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/logging"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/webhook"
)

type webhookVerifier interface {
	Verify(body []byte, signatureHeader string) (webhook.Event, error)
}

type webhookDispatcher interface {
	Dispatch(ctx context.Context, event webhook.Event) webhook.Outcome
}

type WebhookHandler struct {
	verifier   webhookVerifier
	dispatcher webhookDispatcher
}

func NewWebhookHandler(verifier webhookVerifier, dispatcher webhookDispatcher) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, dispatcher: dispatcher}
}

var (
	// One rejection shape for every verification failure. The caller must
	// not be able to tell a bad signature from a stale timestamp or a
	// malformed payload; the log line keeps the subtype.
	ErrWebhookRejected = &AppError{http.StatusBadRequest, "WEBHOOK_REJECTED", "Webhook could not be accepted"}
	ErrWebhookRetry    = &AppError{http.StatusInternalServerError, "WEBHOOK_RETRY", "Webhook processing failed"}
)

func (h *WebhookHandler) ReceiveStripeWebhook(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		log.Error("failed to read webhook body", "error", err)
		RespondAppError(w, ErrWebhookRejected, nil)
		return
	}

	event, err := h.verifier.Verify(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		log.Warn("webhook rejected", "error", err)
		RespondAppError(w, ErrWebhookRejected, nil)
		return
	}

	outcome := h.dispatcher.Dispatch(r.Context(), event)
	if outcome.Retryable() {
		RespondAppError(w, ErrWebhookRetry, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "received"})
}
