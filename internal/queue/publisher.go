package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rramosdev/shop-backoffice/internal/logger"
)

const emailQueueName = "email.requested"

// Publisher sends email jobs to RabbitMQ. Publishing is fire-and-forget
// from the caller's perspective: errors are logged and returned, and callers
// on the request path are expected to ignore them rather than fail the
// request.
type Publisher struct {
	URL string
}

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// Send publishes an EmailRequestedEvent for the given recipient. Messages
// are persistent so a broker restart does not drop pending emails.
func (p *Publisher) Send(ctx context.Context, to string, kind EmailKind, link string) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		logger.Log.WithError(err).Error("email publisher: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Log.WithError(err).Error("email publisher: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		logger.Log.WithError(err).Error("email publisher: queue declare failed")
		return err
	}

	body, err := json.Marshal(EmailRequestedEvent{
		To:          to,
		Kind:        kind,
		Link:        link,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", emailQueueName, false, false, pub); err != nil {
		logger.Log.WithError(err).Error("email publisher: publish failed")
		return err
	}
	return nil
}
