package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// Publisher sends TicketsBookedEvent messages.  It dials per publish and
// holds no connection between calls.  Errors are logged and returned.
type Publisher struct {
	URL   string
	Queue string
	Log   *zap.Logger
	now   func() time.Time
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{URL: url, Queue: TicketsBookedQueue, Log: log, now: time.Now}
}

// NotifyBooked publishes the event for a committed batch.
func (p *Publisher) NotifyBooked(ctx context.Context, sessionID uint64, tickets []model.Ticket, orderID *string) error {
	return p.Publish(ctx, NewTicketsBookedEvent(sessionID, tickets, orderID, p.now()))
}

// Publish sends one event as a persistent message on the default exchange.
func (p *Publisher) Publish(ctx context.Context, event TicketsBookedEvent) error {
	log := p.Log.With(zap.String("queue", p.Queue))
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		log.Warn("rabbitmq: publish failed", zap.Error(err))
		return err
	}
	log.Debug("tickets booked event published",
		zap.Uint64("session_id", event.SessionID),
		zap.Int("seats", len(event.SeatLabels)))
	return nil
}
