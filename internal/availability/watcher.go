package availability

import (
	"context"
	"log/slog"
	"sync"

	"github.com/iliyamo/event-seat-booking/internal/feed"
	"github.com/iliyamo/event-seat-booking/internal/model"
)

// Source reads booking records.
type Source interface {
	ListBookings(ctx context.Context, f model.BookingFilter) ([]model.Booking, error)
}

// Subscriber registers change handlers for an event.
type Subscriber interface {
	Subscribe(eventID string, onChange func()) (feed.Unsubscribe, error)
}

// Watcher keeps a View of one event current by re-fetching bookings each
// time the feed signals a change.
type Watcher struct {
	Source Source
	Feed   Subscriber
	Log    *slog.Logger
}

// NewWatcher returns a Watcher reading from src and listening on f.
func NewWatcher(src Source, f Subscriber) *Watcher {
	return &Watcher{Source: src, Feed: f, Log: slog.Default()}
}

// Watch computes the View of eventID immediately and again after every
// change notification, passing each one to onView.  Notifications that
// arrive while a recompute is running collapse into one more recompute.
// onView is always called from a single goroutine.
//
// The returned stop function unsubscribes, waits for an in-flight onView
// to return and guarantees no further calls.  Cancelling ctx has the same
// effect.
func (w *Watcher) Watch(ctx context.Context, eventID string, capacity int, onView func(View)) (stop func(), err error) {
	signal := make(chan struct{}, 1)
	signal <- struct{}{}
	unsub, err := w.Feed.Subscribe(eventID, func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	logger := w.Log
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
			bookings, err := w.Source.ListBookings(ctx, model.BookingFilter{EventID: eventID})
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				logger.Warn("availability: refresh failed", "event_id", eventID, "err", err)
				continue
			}
			onView(Compute(BookedLabels(bookings), capacity))
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}
