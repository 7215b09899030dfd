package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-booking/internal/feed"
	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/repository"
)

type failingFeed struct{ feed.Feed }

func (failingFeed) Publish(context.Context, string) error { return errors.New("broker down") }

func TestBackendPublishesAfterWrites(t *testing.T) {
	store := repository.NewMemoryStore()
	f := feed.NewMemory()
	b := NewBackend(store, store, f, nil)
	ctx := context.Background()

	var hits int
	unsub, err := b.Subscribe("e1", func() { hits++ })
	require.NoError(t, err)
	defer unsub()

	created, err := b.CreateBooking(ctx, model.NewBooking{UserID: "u1", EventID: "e1", OrderNumber: "ORD-1", Status: model.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, hits)

	_, err = b.UpdateBookingStatus(ctx, created.ID, model.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestBackendFailedWriteDoesNotPublish(t *testing.T) {
	store := repository.NewMemoryStore()
	f := feed.NewMemory()
	b := NewBackend(store, store, f, nil)
	ctx := context.Background()

	_, err := b.CreateBooking(ctx, model.NewBooking{UserID: "u1", EventID: "e1", OrderNumber: "ORD-1", Status: model.StatusPending})
	require.NoError(t, err)

	var hits int
	unsub, _ := b.Subscribe("e1", func() { hits++ })
	defer unsub()

	_, err = b.CreateBooking(ctx, model.NewBooking{UserID: "u1", EventID: "e1", OrderNumber: "ORD-2", Status: model.StatusPending})
	assert.ErrorIs(t, err, model.ErrUniqueViolation)
	_, err = b.UpdateBookingStatus(ctx, "missing", model.StatusCancelled)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 0, hits)
}

func TestBackendPublishFailureKeepsWrite(t *testing.T) {
	store := repository.NewMemoryStore()
	b := NewBackend(store, store, failingFeed{feed.NewMemory()}, nil)

	created, err := b.CreateBooking(context.Background(), model.NewBooking{UserID: "u1", EventID: "e1", OrderNumber: "ORD-1", Status: model.StatusPending})
	require.NoError(t, err)
	got, err := store.GetBooking(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}
