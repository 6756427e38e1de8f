package completion

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/your-org/vodflow/internal/jobs"
	"github.com/your-org/vodflow/pkg/metrics"
	"github.com/your-org/vodflow/pkg/tracing"
)

// OutputResolver discovers the artifacts under a job's output prefix.
type OutputResolver interface {
	Resolve(ctx context.Context, prefix string) jobs.OutputFileSet
}

// Service handles job state change events. The queue send decides the
// outcome; the broadcast is best effort.
type Service struct {
	resolver  OutputResolver
	queue     jobs.NotificationQueue
	broadcast jobs.BroadcastChannel
	domain    string
	logger    *zap.Logger
	now       func() time.Time
}

// Params wires a Service. A nil Broadcast skips broadcasting and an empty
// Domain disables public URL generation.
type Params struct {
	Resolver  OutputResolver
	Queue     jobs.NotificationQueue
	Broadcast jobs.BroadcastChannel
	Domain    string
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewService(p Params) *Service {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver:  p.Resolver,
		queue:     p.Queue,
		broadcast: p.Broadcast,
		domain:    p.Domain,
		logger:    logger,
		now:       now,
	}
}

// Handle processes one event and always returns a well-formed envelope.
func (s *Service) Handle(ctx context.Context, event JobStateEvent) (res Result) {
	ctx, span := tracing.Tracer("completion").Start(ctx, "completion.Handle")
	defer span.End()

	log := s.logger.With(zap.String("job_id", event.Detail.JobID), zap.String("status", event.Detail.Status))

	defer func() {
		if r := recover(); r != nil {
			log.Error("completion handling panicked", zap.Any("panic", r))
			res = failureResult(http.StatusInternalServerError, event.Detail.JobID, event.Detail.Status, fmt.Errorf("panic: %v", r))
		}
		if res.StatusCode != http.StatusOK {
			span.SetStatus(codes.Error, res.Body.Error)
		}
		metrics.CompletionsTotal.WithLabelValues(eventLabel(event), strconv.Itoa(res.StatusCode)).Inc()
	}()

	outcome, err := event.Outcome()
	if err != nil {
		log.Warn("rejecting job state event", zap.Error(err))
		return failureResult(http.StatusBadRequest, event.Detail.JobID, event.Detail.Status, err)
	}
	span.SetAttributes(
		attribute.String("job.id", outcome.JobID),
		attribute.String("job.status", string(outcome.Status)),
	)

	msg := s.buildMessage(ctx, outcome)

	if err := s.deliver(ctx, msg); err != nil {
		span.RecordError(err)
		log.Error("completion notification failed", zap.Error(err))
		return failureResult(http.StatusInternalServerError, outcome.JobID, string(outcome.Status), err)
	}

	s.broadcastBestEffort(ctx, msg, log)

	log.Info("completion notification sent", zap.String("event_type", string(msg.EventType)))
	return Result{
		StatusCode: http.StatusOK,
		Body: ResultBody{
			Success: true,
			JobID:   outcome.JobID,
			Status:  string(outcome.Status),
			Message: "notification sent",
		},
	}
}

func (s *Service) buildMessage(ctx context.Context, outcome jobs.JobOutcome) jobs.NotificationMessage {
	msg := jobs.NotificationMessage{
		EventType:  jobs.EventTypeFor(outcome.Status),
		JobID:      outcome.JobID,
		Status:     string(outcome.Status),
		InputS3URI: outcome.InputURI,
		Timestamp:  s.now().UTC(),
	}

	if outcome.Status != jobs.StatusComplete {
		files := jobs.EmptyOutputFileSet()
		msg.OutputFiles = &files
		return msg
	}

	files := s.resolver.Resolve(ctx, OutputPrefixFor(outcome))
	urls := PublicURLs(s.domain, files)
	msg.OutputFiles = &files
	msg.PublicURLs = &urls
	return msg
}

// deliver is fatal on failure: the queue is the system of record.
func (s *Service) deliver(ctx context.Context, msg jobs.NotificationMessage) error {
	if err := s.queue.Send(ctx, msg); err != nil {
		metrics.SinkFailuresTotal.WithLabelValues("queue").Inc()
		return fmt.Errorf("%w: %v", jobs.ErrNotificationDelivery, err)
	}
	return nil
}

// broadcastBestEffort never fails the invocation.
func (s *Service) broadcastBestEffort(ctx context.Context, msg jobs.NotificationMessage, log *zap.Logger) {
	if s.broadcast == nil {
		log.Debug("broadcast channel not configured, skipping")
		return
	}
	if err := s.broadcast.Broadcast(ctx, msg); err != nil {
		metrics.SinkFailuresTotal.WithLabelValues("broadcast").Inc()
		log.Warn("broadcast failed, continuing", zap.Error(fmt.Errorf("%w: %v", jobs.ErrBroadcastDelivery, err)))
	}
}

func failureResult(code int, jobID, status string, err error) Result {
	return Result{
		StatusCode: code,
		Body: ResultBody{
			Success: false,
			JobID:   jobID,
			Status:  status,
			Message: "notification failed",
			Error:   err.Error(),
		},
	}
}

func eventLabel(event JobStateEvent) string {
	status, err := jobs.ParseTerminalStatus(event.Detail.Status)
	if err != nil {
		return "invalid"
	}
	return string(jobs.EventTypeFor(status))
}
