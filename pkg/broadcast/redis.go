package broadcast

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisConfig configures the pub/sub publisher.
type RedisConfig struct {
	Addrs        []string
	Username     string
	Password     string
	DB           int
	Channel      string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisPublisher publishes payloads on a Redis pub/sub channel. Redis drops
// messages nobody subscribes to, which is the delivery model we want here.
type RedisPublisher struct {
	client  publisher
	channel string
}

// NewRedisPublisher builds a publisher. No connection is made until the first publish.
func NewRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	addrs := make([]string, 0, len(cfg.Addrs))
	for _, addr := range cfg.Addrs {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			addrs = append(addrs, trimmed)
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("redis addr is required")
	}
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		return nil, fmt.Errorf("redis channel is required")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	return &RedisPublisher{client: client, channel: channel}, nil
}

// Channel returns the pub/sub channel name.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// Publish sends payload and returns how many subscribers received it.
func (p *RedisPublisher) Publish(ctx context.Context, payload []byte) (int64, error) {
	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return receivers, nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
