package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/your-org/vodflow/pkg/rabbitmq"
)

// HandleDelivery adapts Handle to the queue consumer: malformed events are
// dropped, a 500 envelope requeues the delivery for another attempt.
func (s *Service) HandleDelivery(ctx context.Context, body []byte) error {
	var event JobStateEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: decode job state event: %v", rabbitmq.ErrDrop, err)
	}

	res := s.Handle(ctx, event)
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", rabbitmq.ErrDrop, res.Body.Error)
	default:
		return fmt.Errorf("job %s: %s", res.Body.JobID, res.Body.Error)
	}
}
