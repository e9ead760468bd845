package webhook

import (
	"context"
	"log/slog"
)

type HandlerFunc func(ctx context.Context, event Event) error

type Status string

const (
	StatusAcknowledged  Status = "acknowledged"
	StatusHandlerFailed Status = "handler_failed"
)

type Outcome struct {
	Status Status
	Err    error
}

// Retryable reports whether the processor should be told to redeliver.
func (o Outcome) Retryable() bool {
	return o.Status == StatusHandlerFailed && IsTransient(o.Err)
}

// Registry maps event kinds to handlers. Register during wiring only; the
// map is read-only once dispatching starts, which is what makes concurrent
// dispatch safe without locks.
type Registry struct {
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{handlers: make(map[string]HandlerFunc), logger: logger}
}

func (r *Registry) Register(kind string, handler HandlerFunc) {
	r.handlers[kind] = handler
}

// Dispatch routes event to the handler registered for its kind. Unknown
// kinds are acknowledged, not rejected: Stripe adds event types over time
// and an unrecognized kind must never break the webhook subscription.
func (r *Registry) Dispatch(ctx context.Context, event Event) Outcome {
	handler, ok := r.handlers[event.Kind]
	if !ok {
		r.logger.Info("unhandled event kind", "event_id", event.ID, "kind", event.Kind)
		return Outcome{Status: StatusAcknowledged}
	}

	if err := handler(ctx, event); err != nil {
		r.logger.Error("event handler failed",
			"event_id", event.ID,
			"kind", event.Kind,
			"transient", IsTransient(err),
			"error", err,
		)
		return Outcome{Status: StatusHandlerFailed, Err: err}
	}

	r.logger.Info("event dispatched", "event_id", event.ID, "kind", event.Kind)
	return Outcome{Status: StatusAcknowledged}
}
