package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

var _ shared.IdempotencyStore = (*mockIdempotencyStore)(nil)

func TestIdempotentHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("new event is handled", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		inner := newTestHandler("JournalEntryPosted")
		h := NewIdempotentHandler(inner, store, zap.NewNop())

		evt := newTestEvent("JournalEntryPosted", uuid.New())
		store.On("MarkProcessed", ctx, evt.EventID().String(), 24*time.Hour).Return(true, nil).Once()

		require.NoError(t, h.Handle(ctx, evt))

		assert.Len(t, inner.getHandled(), 1)
		assert.Equal(t, IdempotencyStats{Processed: 1}, h.Stats())
		store.AssertExpectations(t)
	})

	t.Run("duplicate event is skipped", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		inner := newTestHandler("JournalEntryPosted")
		h := NewIdempotentHandler(inner, store, zap.NewNop())

		evt := newTestEvent("JournalEntryPosted", uuid.New())
		store.On("MarkProcessed", ctx, evt.EventID().String(), mock.Anything).Return(true, nil).Once()
		store.On("MarkProcessed", ctx, evt.EventID().String(), mock.Anything).Return(false, nil).Once()

		require.NoError(t, h.Handle(ctx, evt))
		require.NoError(t, h.Handle(ctx, evt))

		assert.Len(t, inner.getHandled(), 1)
		assert.Equal(t, IdempotencyStats{Processed: 1, Duplicate: 1}, h.Stats())
	})

	t.Run("store failure still handles the event", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		inner := newTestHandler("JournalEntryPosted")
		core, logs := observer.New(zap.WarnLevel)
		h := NewIdempotentHandler(inner, store, zap.New(core))

		evt := newTestEvent("JournalEntryPosted", uuid.New())
		store.On("MarkProcessed", ctx, evt.EventID().String(), mock.Anything).Return(false, errors.New("redis down"))

		require.NoError(t, h.Handle(ctx, evt))

		assert.Len(t, inner.getHandled(), 1)
		assert.Equal(t, 1, logs.FilterMessage("idempotency check failed, handling anyway").Len())
	})

	t.Run("handler failure is counted and returned", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		inner := newTestHandler("JournalEntryPosted")
		inner.err = errors.New("audit sink unavailable")
		h := NewIdempotentHandler(inner, store, nil)

		evt := newTestEvent("JournalEntryPosted", uuid.New())
		store.On("MarkProcessed", ctx, evt.EventID().String(), mock.Anything).Return(true, nil)

		err := h.Handle(ctx, evt)

		assert.EqualError(t, err, "audit sink unavailable")
		assert.Equal(t, IdempotencyStats{Failed: 1}, h.Stats())
	})

	t.Run("disabled config bypasses the store", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		inner := newTestHandler("JournalEntryPosted")
		h := NewIdempotentHandler(inner, store, zap.NewNop(),
			WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))

		evt := newTestEvent("JournalEntryPosted", uuid.New())
		require.NoError(t, h.Handle(ctx, evt))
		require.NoError(t, h.Handle(ctx, evt))

		assert.Len(t, inner.getHandled(), 2)
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("custom ttl is passed to the store", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		h := NewIdempotentHandler(newTestHandler(), store, zap.NewNop(),
			WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}))

		evt := newTestEvent("JournalEntryPosted", uuid.New())
		store.On("MarkProcessed", ctx, evt.EventID().String(), time.Hour).Return(true, nil).Once()

		require.NoError(t, h.Handle(ctx, evt))
		store.AssertExpectations(t)
	})
}

func TestIdempotentHandler_ThroughBus(t *testing.T) {
	ctx := context.Background()
	store := new(mockIdempotencyStore)
	inner := newTestHandler("JournalEntryPosted")
	h := NewIdempotentHandler(inner, store, zap.NewNop())

	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(h)

	evt := newTestEvent("JournalEntryPosted", uuid.New())
	store.On("MarkProcessed", ctx, evt.EventID().String(), mock.Anything).Return(true, nil).Once()
	store.On("MarkProcessed", ctx, evt.EventID().String(), mock.Anything).Return(false, nil).Once()

	require.NoError(t, bus.Publish(ctx, evt))
	require.NoError(t, bus.Publish(ctx, evt))

	assert.Equal(t, []string{"JournalEntryPosted"}, h.EventTypes())
	assert.Same(t, inner, h.Unwrap())
	assert.Len(t, inner.getHandled(), 1)
}
