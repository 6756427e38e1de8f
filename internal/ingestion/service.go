package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/your-org/vodflow/internal/jobs"
	"github.com/your-org/vodflow/pkg/metrics"
	"github.com/your-org/vodflow/pkg/tracing"
)

// Service is the ingest trigger: it turns object-created records into
// transcode jobs and announces each with a JOB_STARTED message.
type Service struct {
	store        jobs.ArtifactStore
	transcoder   jobs.TranscodeJobClient
	queue        jobs.NotificationQueue
	logger       *zap.Logger
	outputBucket string
	concurrency  int
	now          func() time.Time
}

type Params struct {
	Store        jobs.ArtifactStore
	Transcoder   jobs.TranscodeJobClient
	Queue        jobs.NotificationQueue
	Logger       *zap.Logger
	OutputBucket string
	Concurrency  int
	Now          func() time.Time
}

// NewService constructs an ingestion Service.
func NewService(p Params) *Service {
	concurrency := p.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:        p.Store,
		transcoder:   p.Transcoder,
		queue:        p.Queue,
		logger:       logger,
		outputBucket: p.OutputBucket,
		concurrency:  concurrency,
		now:          now,
	}
}

// ProcessBatch handles every record independently. A failing record never
// affects the others and ProcessBatch itself never fails.
func (s *Service) ProcessBatch(ctx context.Context, records []ObjectCreatedRecord) BatchResult {
	ctx, span := tracing.Tracer("ingestion").Start(ctx, "ingestion.ProcessBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(records)))

	start := time.Now()
	slots := make([]*RecordOutcome, len(records))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			slots[i] = s.processRecord(ctx, rec)
			return nil
		})
	}
	_ = g.Wait()

	result := BatchResult{Outcomes: make([]RecordOutcome, 0, len(records))}
	for _, o := range slots {
		if o != nil {
			result.Outcomes = append(result.Outcomes, *o)
		}
	}

	metrics.StageDuration.WithLabelValues("ingest_batch").Observe(time.Since(start).Seconds())
	s.logger.Info("ingest batch processed",
		zap.Int("records", len(records)),
		zap.Int("outcomes", len(result.Outcomes)),
		zap.Int("failed", result.Failed()),
	)
	return result
}

// processRecord returns nil for skipped records.
func (s *Service) processRecord(ctx context.Context, rec ObjectCreatedRecord) (outcome *RecordOutcome) {
	container := rec.S3.Bucket.Name
	rawURI := fmt.Sprintf("s3://%s/%s", container, rec.S3.Object.Key)
	log := s.logger.With(zap.String("input", rawURI))

	defer func() {
		if r := recover(); r != nil {
			log.Error("record processing panicked", zap.Any("panic", r))
			outcome = failure(rawURI, fmt.Errorf("panic: %v", r))
		}
	}()

	key, err := url.QueryUnescape(rec.S3.Object.Key)
	if err != nil {
		metrics.IngestRecordsTotal.WithLabelValues("failed").Inc()
		log.Warn("undecodable object key", zap.Error(err))
		return failure(rawURI, fmt.Errorf("decode key: %w", err))
	}
	src := jobs.SourceObject{Container: container, Key: key}
	inputURI := src.URI()
	log = s.logger.With(zap.String("input", inputURI))

	if !jobs.IsSupported(key) {
		metrics.IngestRecordsTotal.WithLabelValues("skipped").Inc()
		log.Debug("skipping record", zap.Error(jobs.ErrUnsupportedFormat))
		return nil
	}

	ctx, span := tracing.Tracer("ingestion").Start(ctx, "ingestion.processRecord")
	defer span.End()
	span.SetAttributes(attribute.String("source.uri", inputURI))

	job, err := s.submit(ctx, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.IngestRecordsTotal.WithLabelValues("failed").Inc()
		log.Error("record failed", zap.Error(err))
		return failure(inputURI, err)
	}
	span.SetAttributes(attribute.String("job.id", job.ID))
	log = log.With(zap.String("job_id", job.ID))

	msg := jobs.NotificationMessage{
		EventType:   jobs.EventJobStarted,
		JobID:       job.ID,
		Status:      jobs.StatusSubmitted,
		InputS3URI:  inputURI,
		OutputS3URI: job.OutputURI,
		Timestamp:   s.now().UTC(),
	}
	if err := s.queue.Send(ctx, msg); err != nil {
		// The job exists already; the outcome keeps its ID so the gap is visible.
		err = fmt.Errorf("%w: JOB_STARTED for %s: %v", jobs.ErrNotificationDelivery, job.ID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.IngestRecordsTotal.WithLabelValues("failed").Inc()
		metrics.SinkFailuresTotal.WithLabelValues("queue").Inc()
		log.Error("job created but start notification failed", zap.Error(err))
		o := failure(inputURI, err)
		o.JobID = job.ID
		o.OutputS3URI = job.OutputURI
		return o
	}

	metrics.IngestRecordsTotal.WithLabelValues("submitted").Inc()
	log.Info("transcode job submitted", zap.String("output", job.OutputURI))
	return &RecordOutcome{
		Success:     true,
		InputS3URI:  inputURI,
		JobID:       job.ID,
		OutputS3URI: job.OutputURI,
	}
}

func (s *Service) submit(ctx context.Context, src jobs.SourceObject) (jobs.TranscodeJob, error) {
	exists, err := s.store.Exists(ctx, src.Container, src.Key)
	if err != nil {
		return jobs.TranscodeJob{}, fmt.Errorf("%w: %s: %v", jobs.ErrSourceNotFound, src.URI(), err)
	}
	if !exists {
		return jobs.TranscodeJob{}, fmt.Errorf("%w: %s", jobs.ErrSourceNotFound, src.URI())
	}

	prefix := jobs.OutputPrefix(src.Key)
	req := jobs.TranscodeRequest{
		InputURI:         src.URI(),
		OutputPrefix:     prefix,
		OutputURI:        fmt.Sprintf("s3://%s/%s", s.outputBucket, prefix),
		IdempotencyToken: jobs.IdempotencyToken(src.Container, src.Key, s.now()),
	}

	job, err := s.transcoder.CreateJob(ctx, req)
	if err != nil {
		return jobs.TranscodeJob{}, fmt.Errorf("%w: %s: %v", jobs.ErrJobSubmission, req.InputURI, err)
	}
	if job.OutputURI == "" {
		job.OutputURI = req.OutputURI
	}
	if job.InputURI == "" {
		job.InputURI = req.InputURI
	}
	return job, nil
}

func failure(inputURI string, err error) *RecordOutcome {
	return &RecordOutcome{
		Success:    false,
		InputS3URI: inputURI,
		Error:      err.Error(),
		err:        err,
	}
}
