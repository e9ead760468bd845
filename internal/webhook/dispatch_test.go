package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_UnknownKindAcknowledged(t *testing.T) {
	registry := NewRegistry(slog.Default())

	invoked := 0
	registry.Register("checkout.session.completed", func(context.Context, Event) error {
		invoked++
		return nil
	})

	outcome := registry.Dispatch(context.Background(), Event{ID: "evt_x", Kind: "product.created"})

	assert.Equal(t, StatusAcknowledged, outcome.Status)
	assert.False(t, outcome.Retryable())
	assert.Zero(t, invoked)
}

func TestDispatch_InvokesHandlerOnce(t *testing.T) {
	registry := NewRegistry(slog.Default())

	var got []Event
	registry.Register("checkout.session.completed", func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})

	event := Event{ID: "evt_1", Kind: "checkout.session.completed"}
	outcome := registry.Dispatch(context.Background(), event)

	assert.Equal(t, StatusAcknowledged, outcome.Status)
	require.Len(t, got, 1)
	assert.Equal(t, event, got[0])
}

func TestDispatch_TerminalFailure(t *testing.T) {
	registry := NewRegistry(slog.Default())
	registry.Register("checkout.session.completed", func(context.Context, Event) error {
		return errors.New("bad payload shape")
	})

	outcome := registry.Dispatch(context.Background(), Event{Kind: "checkout.session.completed"})

	assert.Equal(t, StatusHandlerFailed, outcome.Status)
	assert.False(t, outcome.Retryable())
}

func TestDispatch_TransientFailure(t *testing.T) {
	registry := NewRegistry(slog.Default())
	registry.Register("checkout.session.completed", func(context.Context, Event) error {
		return Transient(errors.New("downstream unavailable"))
	})

	outcome := registry.Dispatch(context.Background(), Event{Kind: "checkout.session.completed"})

	assert.Equal(t, StatusHandlerFailed, outcome.Status)
	assert.True(t, outcome.Retryable())
}

func TestTransient(t *testing.T) {
	assert.Nil(t, Transient(nil))

	base := errors.New("boom")
	err := Transient(base)
	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, base)

	// survives another layer of wrapping
	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, IsTransient(wrapped))

	assert.False(t, IsTransient(base))
	assert.False(t, IsTransient(nil))
}
