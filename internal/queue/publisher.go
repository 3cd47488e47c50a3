package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/verimail/email-auth/internal/model"
)

const emailQueueName = "email.requested"

// Publisher pushes EmailRequestedEvents to RabbitMQ. It satisfies
// the auth core's Notifier interface, so a publish failure is logged
// and swallowed: the email-log entry is already persisted and the
// request flow must not fail because the broker is down.
type Publisher struct {
	url string
}

// NewPublisher returns a publisher targeting the given AMQP URL.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// EmailQueued publishes the event corresponding to a freshly logged
// email. Messages are marked persistent so they survive broker
// restarts.
func (p *Publisher) EmailQueued(ctx context.Context, entry model.EmailLogEntry) {
	if err := p.publish(ctx, EmailRequestedEvent{
		LogID:       entry.ID,
		Email:       entry.Email,
		Type:        entry.Type,
		Code:        entry.Code,
		RequestedAt: entry.SentAt.UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("email-publisher: publish failed: %v", err)
	}
}

func (p *Publisher) publish(ctx context.Context, event EmailRequestedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		emailQueueName, // name
		true,           // durable
		false,          // autoDelete
		false,          // exclusive
		false,          // noWait
		nil,            // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	return ch.PublishWithContext(ctx,
		"",             // default exchange
		emailQueueName, // routing key = queue name
		false,          // mandatory
		false,          // immediate
		pub,
	)
}
