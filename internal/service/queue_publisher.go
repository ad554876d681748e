// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can fire-and-forget without interrupting the
// simulation loop.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/post-office-sim/internal/queue"
)

// PublishDayClosed publishes a DayClosedEvent to the day.closed queue.
func PublishDayClosed(ctx context.Context, event q.DayClosedEvent) error {
	return publish(ctx, "day.closed", event)
}

// PublishSimulationEnded publishes a SimulationEndedEvent to the
// simulation.ended queue.
func PublishSimulationEnded(ctx context.Context, event q.SimulationEndedEvent) error {
	return publish(ctx, "simulation.ended", event)
}

// publish opens a short-lived connection, declares the durable queue and
// sends one persistent JSON message.  Day boundaries are seconds apart at the
// default minute duration, so connection reuse is not worth the state.
func publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
