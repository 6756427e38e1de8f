package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrDrop wrapped into a handler error rejects the delivery without requeueing it.
var ErrDrop = errors.New("drop delivery")

// RetryCountHeader counts how many times a delivery has been republished
// after a failed attempt.
const RetryCountHeader = "x-retry-count"

// MessageHandler processes one delivery body. A nil return acks the delivery,
// an error wrapping ErrDrop rejects it and any other error retries it after a
// backoff until the retry limit dead-letters it.
type MessageHandler func(ctx context.Context, body []byte) error

type republisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Consumer struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	publisher   republisher
	queue       string
	workerCount int
	maxRetries  int
	baseDelay   time.Duration
	maxDelay    time.Duration
	handler     MessageHandler
	logger      *zap.Logger
	wg          sync.WaitGroup
}

type ConsumerConfig struct {
	URL         string
	Queue       string
	Exchange    string
	RoutingKey  string
	DLQ         string
	Prefetch    int
	WorkerCount int
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NewConsumer dials the broker, declares the topology and returns a consumer
// ready to Start.
func NewConsumer(cfg ConsumerConfig, handler MessageHandler, logger *zap.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	workers := cfg.WorkerCount
	if workers <= 0 {
		workers = 1
	}
	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 60 * time.Second
	}

	return &Consumer{
		conn:        conn,
		channel:     ch,
		publisher:   ch,
		queue:       cfg.Queue,
		workerCount: workers,
		maxRetries:  cfg.MaxRetries,
		baseDelay:   cfg.BaseDelay,
		maxDelay:    maxDelay,
		handler:     handler,
		logger:      logger.With(zap.String("queue", cfg.Queue)),
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg ConsumerConfig) error {
	var args amqp.Table
	if cfg.DLQ != "" {
		if _, err := ch.QueueDeclare(cfg.DLQ, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", cfg.DLQ, err)
		}
		args = amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": cfg.DLQ,
		}
	}

	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue %s: %w", cfg.Queue, err)
	}

	if cfg.Exchange == "" {
		return nil
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	routingKey := cfg.RoutingKey
	if routingKey == "" {
		routingKey = cfg.Queue
	}
	if err := ch.QueueBind(cfg.Queue, routingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", cfg.Queue, err)
	}
	return nil
}

// Start consumes until ctx is cancelled, then waits for in-flight deliveries.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.channel.ConsumeWithContext(
		ctx,
		c.queue,
		"",
		false, // autoAck=false
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	c.logger.Info("starting worker pool", zap.Int("workers", c.workerCount))

	for i := 0; i < c.workerCount; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i, deliveries)
	}

	<-ctx.Done()
	c.logger.Info("context cancelled, waiting for workers to finish")
	c.wg.Wait()
	return nil
}

func (c *Consumer) worker(ctx context.Context, id int, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	log := c.logger.With(zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Info("delivery channel closed")
				return
			}
			c.processDelivery(ctx, d, log)
		}
	}
}

func (c *Consumer) processDelivery(ctx context.Context, d amqp.Delivery, log *zap.Logger) {
	err := c.handler(ctx, d.Body)
	if err == nil {
		_ = d.Ack(false)
		return
	}

	if errors.Is(err, ErrDrop) {
		log.Warn("message rejected, not requeueing",
			zap.Error(err),
			zap.Uint64("delivery_tag", d.DeliveryTag),
		)
		_ = d.Nack(false, false)
		return
	}

	attempt := attemptFromHeaders(d.Headers)
	if c.maxRetries > 0 && attempt > c.maxRetries {
		log.Error("message retries exhausted, dead-lettering",
			zap.Error(err),
			zap.Uint64("delivery_tag", d.DeliveryTag),
			zap.Int("attempt", attempt),
		)
		_ = d.Nack(false, false)
		return
	}

	delay := backoff(c.baseDelay, c.maxDelay, attempt)
	log.Warn("message processing failed, retrying",
		zap.Error(err),
		zap.Uint64("delivery_tag", d.DeliveryTag),
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
	)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		_ = d.Nack(false, true)
		return
	}

	// A plain requeue keeps the headers unchanged, so the attempt counter
	// travels on a republished copy and the original is acked.
	if err := c.publisher.PublishWithContext(ctx, "", c.queue, false, false, retryPublishing(d, attempt)); err != nil {
		log.Error("republish failed, requeueing", zap.Error(err))
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

func retryPublishing(d amqp.Delivery, attempt int) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[RetryCountHeader] = int32(attempt)

	return amqp.Publishing{
		Headers:         headers,
		ContentType:     d.ContentType,
		ContentEncoding: d.ContentEncoding,
		DeliveryMode:    amqp.Persistent,
		CorrelationId:   d.CorrelationId,
		MessageId:       d.MessageId,
		Timestamp:       d.Timestamp,
		Type:            d.Type,
		Body:            d.Body,
	}
}

// attemptFromHeaders returns the 1-based attempt number of a delivery.
func attemptFromHeaders(headers amqp.Table) int {
	switch n := headers[RetryCountHeader].(type) {
	case int32:
		return int(n) + 1
	case int64:
		return int(n) + 1
	case int:
		return n + 1
	case int16:
		return int(n) + 1
	case int8:
		return int(n) + 1
	}
	return 1
}

func backoff(base, limit time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(base) * math.Pow(2, float64(attempt-1))
	if delay > float64(limit) {
		return limit
	}
	return time.Duration(delay)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
