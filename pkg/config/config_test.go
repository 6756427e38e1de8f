package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OUTPUT_BUCKET_NAME", "vod-output")
	t.Setenv("JOB_TEMPLATE_NAME", "hls-abr")
	t.Setenv("MEDIACONVERT_ENDPOINT", "https://abcd.mediaconvert.ap-northeast-1.amazonaws.com")
	t.Setenv("MEDIACONVERT_ROLE_ARN", "arn:aws:iam::123456789012:role/MediaConvert")
	t.Setenv("KAFKA_NOTIFICATION_TOPIC", "vod.notifications")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "vod-output", cfg.Storage.OutputBucket)
	assert.NotEmpty(t, cfg.Transcoder.Region)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Second, cfg.RabbitMQ.RetryBaseDelay)
	assert.Equal(t, 5, cfg.RabbitMQ.MaxRetries)
	assert.Equal(t, 4, cfg.Ingest.Concurrency)
	assert.False(t, cfg.BroadcastEnabled())
	assert.Empty(t, cfg.Delivery.Domain)
}

func TestLoadOptionalSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_BROADCAST_CHANNEL", "vod.ops")
	t.Setenv("REDIS_ADDRS", "redis-a:6379,redis-b:6379")
	t.Setenv("CLOUDFRONT_DOMAIN", "d111.cloudfront.net")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.BroadcastEnabled())
	assert.Equal(t, []string{"redis-a:6379", "redis-b:6379"}, cfg.Broadcast.Addrs)
	assert.Equal(t, "d111.cloudfront.net", cfg.Delivery.Domain)
}

func TestLoadFailsWithoutRequiredSettings(t *testing.T) {
	for _, name := range []string{
		"OUTPUT_BUCKET_NAME",
		"JOB_TEMPLATE_NAME",
		"MEDIACONVERT_ENDPOINT",
		"MEDIACONVERT_ROLE_ARN",
		"KAFKA_NOTIFICATION_TOPIC",
	} {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(name, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoadRejectsNonPositiveConcurrency(t *testing.T) {
	setRequired(t)
	t.Setenv("INGEST_CONCURRENCY", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "INGEST_CONCURRENCY")
}
