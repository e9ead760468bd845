package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JGBALL23/superspeedysolutions-payment-api/internal/webhook"
)

type mockUpdater struct {
	updates []RecordUpdate
	err     error
}

func (m *mockUpdater) UpdateRecord(_ context.Context, update RecordUpdate) error {
	m.updates = append(m.updates, update)
	return m.err
}

func TestHandleCheckoutCompleted(t *testing.T) {
	updater := &mockUpdater{}
	billing := NewBillingService(updater)

	event := webhook.Event{
		ID:   "evt_1",
		Kind: "checkout.session.completed",
		Data: json.RawMessage(`{"id":"cs_1","metadata":{"plan_type":"premium"}}`),
	}
	require.NoError(t, billing.HandleCheckoutCompleted(context.Background(), event))

	require.Len(t, updater.updates, 1)
	assert.Equal(t, "evt_1", updater.updates[0].EventID)
	assert.Equal(t, "checkout.session.completed", updater.updates[0].Kind)
	assert.Equal(t, event.Data, updater.updates[0].Data)
}

func TestHandleCheckoutCompleted_MalformedDataIsTerminal(t *testing.T) {
	updater := &mockUpdater{}
	billing := NewBillingService(updater)

	err := billing.HandleCheckoutCompleted(context.Background(), webhook.Event{
		ID:   "evt_bad",
		Kind: "checkout.session.completed",
		Data: json.RawMessage(`"not an object"`),
	})

	require.Error(t, err)
	assert.False(t, webhook.IsTransient(err))
	assert.Empty(t, updater.updates)
}

func TestHandleCheckoutCompleted_TransientPassesThrough(t *testing.T) {
	updater := &mockUpdater{err: webhook.Transient(errors.New("record API down"))}
	billing := NewBillingService(updater)

	err := billing.HandleCheckoutCompleted(context.Background(), webhook.Event{
		ID:   "evt_t",
		Kind: "checkout.session.completed",
		Data: json.RawMessage(`{"id":"cs_1"}`),
	})

	require.Error(t, err)
	assert.True(t, webhook.IsTransient(err))
}

func TestHandleSubscriptionCreated(t *testing.T) {
	updater := &mockUpdater{}
	billing := NewBillingService(updater)

	event := webhook.Event{
		ID:   "evt_2",
		Kind: "customer.subscription.created",
		Data: json.RawMessage(`{"id":"sub_1","status":"active"}`),
	}
	require.NoError(t, billing.HandleSubscriptionCreated(context.Background(), event))

	require.Len(t, updater.updates, 1)
	assert.Equal(t, "evt_2", updater.updates[0].EventID)
	assert.Equal(t, "customer.subscription.created", updater.updates[0].Kind)
}
