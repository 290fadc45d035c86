package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"conversync/models"
)

// ErrAMQPClosed signals that the broker dropped the consumer channel.
var ErrAMQPClosed = errors.New("amqp deliveries closed")

// AMQPSource consumes push events straight off the backend's topic exchange.
// Headless integrations use this instead of the HTTP stream. Each source gets
// its own exclusive auto-delete queue bound to the exchange.
type AMQPSource struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
}

// NewAMQPSource connects, declares the binding and starts consuming.
func NewAMQPSource(amqpURL, exchange, routingKey string) (*AMQPSource, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, routingKey, exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}

	log.Printf("conversync: amqp push source connected exchange=%s key=%s", exchange, routingKey)
	return &AMQPSource{conn: conn, ch: ch, deliveries: deliveries}, nil
}

// Next returns the next decoded event. Undecodable deliveries are skipped.
func (s *AMQPSource) Next(ctx context.Context) (models.PushEvent, error) {
	for {
		select {
		case <-ctx.Done():
			return models.PushEvent{}, ctx.Err()
		case delivery, ok := <-s.deliveries:
			if !ok {
				return models.PushEvent{}, ErrAMQPClosed
			}
			ev, err := decodeDelivery(delivery.Body)
			if err != nil {
				log.Printf("conversync: skipping malformed push delivery: %v", err)
				continue
			}
			return ev, nil
		}
	}
}

// Close shuts the channel and connection down.
func (s *AMQPSource) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func decodeDelivery(body []byte) (models.PushEvent, error) {
	var ev models.PushEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return models.PushEvent{}, err
	}
	if ev.Type == "" {
		return models.PushEvent{}, errors.New("delivery has no event type")
	}
	return ev, nil
}
