package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/your-org/vodflow/internal/jobs"
	"github.com/your-org/vodflow/pkg/kafka"
)

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type publisher interface {
	Publish(ctx context.Context, payload []byte) (int64, error)
}

// Queue delivers notifications to the durable Kafka topic, keyed by job ID so
// every event of one job lands on the same partition.
type Queue struct {
	producer producer
}

func NewQueue(p producer) *Queue {
	return &Queue{producer: p}
}

func (q *Queue) Send(ctx context.Context, msg jobs.NotificationMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	return q.producer.Publish(ctx, kafka.Message{
		Key:   msg.JobID,
		Value: payload,
		Headers: map[string]string{
			"event_type": string(msg.EventType),
			"job_id":     msg.JobID,
			"status":     msg.Status,
			"message_id": uuid.NewString(),
		},
	})
}

// Broadcast publishes notifications on the ops pub/sub channel.
type Broadcast struct {
	publisher publisher
}

func NewBroadcast(p publisher) *Broadcast {
	return &Broadcast{publisher: p}
}

func (b *Broadcast) Broadcast(ctx context.Context, msg jobs.NotificationMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = b.publisher.Publish(ctx, payload)
	return err
}
