// Package events publishes domain events to RabbitMQ on a best-effort
// basis. Publishing failures are logged and never fail the request that
// triggered them.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event is the JSON payload written to the queue.
type Event struct {
	Type    string                 `json:"type"`
	UserID  uint                   `json:"user_id,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	At      time.Time              `json:"at"`
}

// Publisher writes events to one durable queue. A nil Publisher is valid
// and drops every event, so callers never need to guard the disabled case.
type Publisher struct {
	url   string
	queue string
}

// NewPublisher returns a publisher for the given broker URL and queue
// name, or nil when no URL is configured.
func NewPublisher(url, queue string) *Publisher {
	if url == "" {
		return nil
	}
	if queue == "" {
		queue = "simagis.events"
	}
	return &Publisher{url: url, queue: queue}
}

// Publish sends one event. Messages are persistent so they survive broker
// restarts; any error is logged and returned for callers that care.
func (p *Publisher) Publish(ctx context.Context, eventType string, userID uint, payload map[string]interface{}) error {
	if p == nil {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("events: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("events: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		log.Printf("events: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(Event{
		Type:    eventType,
		UserID:  userID,
		Payload: payload,
		At:      time.Now().UTC(),
	})
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.Printf("events: publish failed: %v", err)
		return err
	}

	return nil
}
