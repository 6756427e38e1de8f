package kafka

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishWritesKeyValueAndSortedHeaders(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w, topic: "vod.notifications"}

	err := p.Publish(context.Background(), Message{
		Key:     "job-1",
		Value:   []byte(`{"jobId":"job-1"}`),
		Headers: map[string]string{"status": "COMPLETE", "event_type": "JOB_COMPLETED"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	got := w.msgs[0]
	assert.Equal(t, []byte("job-1"), got.Key)
	assert.JSONEq(t, `{"jobId":"job-1"}`, string(got.Value))
	require.Len(t, got.Headers, 2)
	assert.Equal(t, "event_type", got.Headers[0].Key)
	assert.Equal(t, "status", got.Headers[1].Key)
	assert.False(t, got.Time.IsZero())
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &Producer{writer: &recordingWriter{err: boom}, topic: "vod.notifications"}

	err := p.Publish(context.Background(), Message{Key: "k"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "vod.notifications")
}

func TestCloseClosesWriter(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w}
	require.NoError(t, p.Close(context.Background()))
	assert.True(t, w.closed)
}

func TestCompressionFromString(t *testing.T) {
	assert.Equal(t, kafkago.Gzip, CompressionFromString("GZIP"))
	assert.Equal(t, kafkago.Lz4, CompressionFromString("lz4"))
	assert.Equal(t, kafkago.Zstd, CompressionFromString("zstd"))
	assert.Equal(t, kafkago.Snappy, CompressionFromString("unknown"))
}
