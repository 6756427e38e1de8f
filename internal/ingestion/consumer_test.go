package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/your-org/vodflow/internal/jobs"
)

func TestHandleDeliveryWarnsOnPartialFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store, tc, q := &mockStore{}, &mockTranscoder{}, &mockQueue{}
	store.On("Exists", mock.Anything, "uploads", "gone.mp4").Return(false, nil)
	store.On("Exists", mock.Anything, "uploads", "ok.mp4").Return(true, nil)
	tc.On("CreateJob", mock.Anything, mock.Anything).Return(jobs.TranscodeJob{ID: "job-1"}, nil)
	q.On("Send", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(Params{
		Store:        store,
		Transcoder:   tc,
		Queue:        q,
		Logger:       zap.New(core),
		OutputBucket: "vod-output",
		Concurrency:  2,
	})

	body := []byte(`{"Records":[
		{"s3":{"bucket":{"name":"uploads"},"object":{"key":"gone.mp4"}}},
		{"s3":{"bucket":{"name":"uploads"},"object":{"key":"ok.mp4"}}}
	]}`)
	require.NoError(t, svc.HandleDelivery(context.Background(), body))

	entries := logs.FilterMessage("object-created batch partially failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["records"])
	assert.EqualValues(t, 1, fields["failed"])
}

func TestHandleDeliveryQuietOnFullSuccess(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store, tc, q := &mockStore{}, &mockTranscoder{}, &mockQueue{}
	store.On("Exists", mock.Anything, "uploads", "ok.mp4").Return(true, nil)
	tc.On("CreateJob", mock.Anything, mock.Anything).Return(jobs.TranscodeJob{ID: "job-1"}, nil)
	q.On("Send", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(Params{Store: store, Transcoder: tc, Queue: q, Logger: zap.New(core), OutputBucket: "vod-output"})

	body := []byte(`{"Records":[{"s3":{"bucket":{"name":"uploads"},"object":{"key":"ok.mp4"}}}]}`)
	require.NoError(t, svc.HandleDelivery(context.Background(), body))

	assert.Zero(t, logs.FilterMessage("object-created batch partially failed").Len())
}
