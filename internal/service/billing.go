package service

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/logging"
	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/webhook"
)

type recordUpdater interface {
	UpdateRecord(ctx context.Context, update RecordUpdate) error
}

// BillingService holds the webhook event handlers that turn verified Stripe
// events into record updates.
type BillingService struct {
	records recordUpdater
}

func NewBillingService(records recordUpdater) *BillingService {
	return &BillingService{records: records}
}

// HandleCheckoutCompleted marks a checkout as paid downstream. A payload
// that fails to decode is a terminal failure; redelivery would not fix it.
func (s *BillingService) HandleCheckoutCompleted(ctx context.Context, event webhook.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data, &sess); err != nil {
		return fmt.Errorf("HandleCheckoutCompleted: decode session: %w", err)
	}

	logging.FromContext(ctx).Info("checkout session completed",
		"event_id", event.ID,
		"session_id", sess.ID,
		"plan_type", sess.Metadata["plan_type"],
	)

	if err := s.records.UpdateRecord(ctx, RecordUpdate{
		EventID: event.ID,
		Kind:    event.Kind,
		Data:    event.Data,
	}); err != nil {
		return fmt.Errorf("HandleCheckoutCompleted: %w", err)
	}
	return nil
}

// HandleSubscriptionCreated records a newly created subscription.
func (s *BillingService) HandleSubscriptionCreated(ctx context.Context, event webhook.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data, &sub); err != nil {
		return fmt.Errorf("HandleSubscriptionCreated: decode subscription: %w", err)
	}

	logging.FromContext(ctx).Info("subscription created",
		"event_id", event.ID,
		"subscription_id", sub.ID,
		"status", sub.Status,
	)

	if err := s.records.UpdateRecord(ctx, RecordUpdate{
		EventID: event.ID,
		Kind:    event.Kind,
		Data:    event.Data,
	}); err != nil {
		return fmt.Errorf("HandleSubscriptionCreated: %w", err)
	}
	return nil
}
