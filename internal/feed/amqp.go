package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the topic exchange booking changes are published on.
const DefaultExchange = "booking.changes"

// BookingChanged is the message body published for every change.  Handlers
// never see it; it exists for operators and other consumers of the exchange.
type BookingChanged struct {
	EventID   string `json:"event_id"`
	ChangedAt string `json:"changed_at"`
}

// RoutingKey returns the topic routing key for eventID.
func RoutingKey(eventID string) string { return "booking.changed." + eventID }

// AMQP is a RabbitMQ backed Feed.  Publishing shares one channel; every
// subscription owns its own channel and an exclusive auto-delete queue bound
// to the event's routing key, so closing the channel tears the subscription
// down on the broker as well.
type AMQP struct {
	conn     *amqp.Connection
	exchange string
	log      *slog.Logger

	pubMu sync.Mutex
	pubCh *amqp.Channel
}

// DialAMQP connects to the broker at url, retrying with exponential backoff
// until ctx is done, and declares the durable topic exchange.
func DialAMQP(ctx context.Context, url, exchange string, logger *slog.Logger) (*AMQP, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = slog.Default()
	}
	backoff := time.Second
	var conn *amqp.Connection
	for {
		var err error
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warn("feed: failed to dial broker", "err", err, "retry_in", backoff)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQP{conn: conn, exchange: exchange, log: logger, pubCh: ch}, nil
}

// Publish implements Feed.  Messages are transient: a change nobody is
// listening for has no value later.
func (a *AMQP) Publish(ctx context.Context, eventID string) error {
	body, err := json.Marshal(BookingChanged{EventID: eventID, ChangedAt: time.Now().UTC().Format(time.RFC3339)})
	if err != nil {
		return err
	}
	a.pubMu.Lock()
	defer a.pubMu.Unlock()
	return a.pubCh.PublishWithContext(ctx, a.exchange, RoutingKey(eventID), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
}

// Subscribe implements Feed.
func (a *AMQP) Subscribe(eventID string, onChange func()) (Unsubscribe, error) {
	ch, err := a.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, RoutingKey(eventID), a.exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("bind %s: %w", RoutingKey(eventID), err)
	}
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue consume: %w", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range msgs {
			onChange()
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			if err := ch.Close(); err != nil {
				a.log.Warn("feed: close subscription channel", "event_id", eventID, "err", err)
			}
			<-done
		})
	}, nil
}

// Close releases the publishing channel and the connection.
func (a *AMQP) Close() error {
	a.pubMu.Lock()
	if a.pubCh != nil {
		_ = a.pubCh.Close()
	}
	a.pubMu.Unlock()
	return a.conn.Close()
}
