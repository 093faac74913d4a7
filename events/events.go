// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// TrainingScheduledQueue is the durable queue training events are routed to.
const TrainingScheduledQueue = "training.scheduled"

// TrainingScheduled is published after a training is saved. It carries enough
// for downstream consumers to notify both parties without querying the database.
type TrainingScheduled struct {
	TrainingID      int64  `json:"training_id"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	Duration        int    `json:"duration"`
	TrainingType    string `json:"training_type"`
	TraineeUsername string `json:"trainee_username"`
	TrainerUsername string `json:"trainer_username"`
	ScheduledAt     string `json:"scheduled_at"`
}

// Publisher sends domain events.
type Publisher interface {
	PublishTrainingScheduled(ctx context.Context, ev TrainingScheduled) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) PublishTrainingScheduled(context.Context, TrainingScheduled) error { return nil }

// AMQPPublisher publishes persistent JSON messages. It dials per publish,
// which suits the low event rate of scheduling trainings.
type AMQPPublisher struct {
	url string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

// PublishTrainingScheduled sends ev to TrainingScheduledQueue.
func (p *AMQPPublisher) PublishTrainingScheduled(ctx context.Context, ev TrainingScheduled) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.publish(ctx, TrainingScheduledQueue, body)
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, body []byte) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// New returns an AMQPPublisher for url, or Noop when url is empty.
func New(url string) Publisher {
	if url == "" {
		return Noop{}
	}
	return NewAMQPPublisher(url)
}
