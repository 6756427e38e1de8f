package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/your-org/vodflow/pkg/rabbitmq"
)

// HandleDelivery adapts ProcessBatch to the queue consumer. Record failures
// are logged and counted, and the delivery is still acked unless the body
// cannot be decoded at all.
func (s *Service) HandleDelivery(ctx context.Context, body []byte) error {
	var event ObjectCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: decode object-created event: %v", rabbitmq.ErrDrop, err)
	}
	result := s.ProcessBatch(ctx, event.Records)
	if failed := result.Failed(); failed > 0 {
		s.logger.Warn("object-created batch partially failed",
			zap.Int("records", len(event.Records)),
			zap.Int("failed", failed),
		)
	}
	return nil
}
