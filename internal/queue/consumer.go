package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/rramosdev/shop-backoffice/internal/logger"
)

// StartEmailConsumer connects to RabbitMQ, declares the email.requested
// queue and consumes it in a reconnect loop. Each message is handed to the
// delivery provider; in this deployment delivery is a structured log line,
// the real transport being owned by an external collaborator. Malformed
// messages are rejected without requeue so a bad payload cannot wedge the
// queue.
func StartEmailConsumer(url string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Log.WithError(err).Warnf("email consumer: dial failed; retrying in %s", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			logger.Log.WithError(err).Warn("email consumer: consume loop ended; reconnecting")
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Log.WithError(err).Warn("email consumer: set QoS failed")
	}

	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(emailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := deliver(d.Body); err != nil {
			logger.Log.WithError(err).Error("email consumer: delivery failed")
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func deliver(body []byte) error {
	var ev EmailRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"to":           ev.To,
		"kind":         ev.Kind,
		"link":         ev.Link,
		"requested_at": ev.RequestedAt,
	}).Info("email delivered")
	return nil
}
