package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/your-org/vodflow/internal/api"
	"github.com/your-org/vodflow/internal/completion"
	"github.com/your-org/vodflow/internal/ingestion"
	"github.com/your-org/vodflow/internal/jobs"
	"github.com/your-org/vodflow/internal/notify"
	"github.com/your-org/vodflow/internal/transcoder"
	"github.com/your-org/vodflow/pkg/broadcast"
	"github.com/your-org/vodflow/pkg/config"
	"github.com/your-org/vodflow/pkg/kafka"
	"github.com/your-org/vodflow/pkg/logger"
	"github.com/your-org/vodflow/pkg/rabbitmq"
	"github.com/your-org/vodflow/pkg/storage/objectstore"
	"github.com/your-org/vodflow/pkg/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg.App.LogLevel, cfg.App.Name, cfg.App.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	traceShutdown, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		Attributes:  tracing.ParseAttributes(cfg.Tracing.ResourceAttr),
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	if err != nil {
		logr.Fatal("init tracing", zap.Error(err))
	}
	defer traceShutdown(context.Background()) //nolint:errcheck

	store, err := objectstore.New(objectstore.Config{
		Provider:  cfg.Storage.Provider,
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logr.Fatal("init object store", zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.NotificationTopic,
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		WriteTimeout: cfg.Kafka.WriteTimeout,
		Compression:  kafka.CompressionFromString(cfg.Kafka.CompressionCodec),
		RequiredAcks: kafkago.RequireAll,
		MaxAttempts:  cfg.Kafka.Retries,
	})
	queue := notify.NewQueue(producer)

	// Left as a nil interface when disabled so the completion stage skips it.
	var channel jobs.BroadcastChannel
	var redisPub *broadcast.RedisPublisher
	if cfg.BroadcastEnabled() {
		redisPub, err = broadcast.NewRedisPublisher(broadcast.RedisConfig{
			Addrs:        cfg.Broadcast.Addrs,
			Username:     cfg.Broadcast.Username,
			Password:     cfg.Broadcast.Password,
			DB:           cfg.Broadcast.DB,
			Channel:      cfg.Broadcast.Channel,
			DialTimeout:  5 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err != nil {
			logr.Fatal("init broadcast channel", zap.Error(err))
		}
		channel = notify.NewBroadcast(redisPub)
	} else {
		logr.Warn("REDIS_BROADCAST_CHANNEL not set, broadcast disabled")
	}
	if cfg.Delivery.Domain == "" {
		logr.Warn("CLOUDFRONT_DOMAIN not set, public URLs disabled")
	}

	mc, err := transcoder.New(ctx, transcoder.Config{
		Endpoint:    cfg.Transcoder.Endpoint,
		Region:      cfg.Transcoder.Region,
		RoleARN:     cfg.Transcoder.RoleARN,
		JobTemplate: cfg.Transcoder.JobTemplate,
	})
	if err != nil {
		logr.Fatal("init transcoder", zap.Error(err))
	}

	ingest := ingestion.NewService(ingestion.Params{
		Store:        store,
		Transcoder:   mc,
		Queue:        queue,
		Logger:       logr.Named("ingestion"),
		OutputBucket: cfg.Storage.OutputBucket,
		Concurrency:  cfg.Ingest.Concurrency,
	})

	complete := completion.NewService(completion.Params{
		Resolver:  completion.NewResolver(store, cfg.Storage.OutputBucket, logr.Named("resolver")),
		Queue:     queue,
		Broadcast: channel,
		Domain:    cfg.Delivery.Domain,
		Logger:    logr.Named("completion"),
	})

	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: api.NewRouter(cfg.HTTP.WriteTimeout,
			ingestion.NewHTTPHandler(ingest, logr, cfg.HTTP.MaxBodyBytes),
			completion.NewHTTPHandler(complete, logr, cfg.HTTP.MaxBodyBytes),
		),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	var wg sync.WaitGroup
	if cfg.RabbitMQ.Enabled {
		consumers := []struct {
			queue   string
			handler rabbitmq.MessageHandler
		}{
			{cfg.RabbitMQ.ObjectCreatedQueue, ingest.HandleDelivery},
			{cfg.RabbitMQ.JobStateQueue, complete.HandleDelivery},
		}
		for _, c := range consumers {
			consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
				URL:         cfg.RabbitMQ.URL,
				Queue:       c.queue,
				Exchange:    cfg.RabbitMQ.Exchange,
				DLQ:         cfg.RabbitMQ.DLQ,
				Prefetch:    cfg.RabbitMQ.Prefetch,
				WorkerCount: cfg.RabbitMQ.WorkerCount,
				MaxRetries:  cfg.RabbitMQ.MaxRetries,
				BaseDelay:   cfg.RabbitMQ.RetryBaseDelay,
				MaxDelay:    cfg.RabbitMQ.RetryMaxDelay,
			}, c.handler, logr)
			if err != nil {
				logr.Fatal("init rabbitmq consumer", zap.String("queue", c.queue), zap.Error(err))
			}
			defer consumer.Close() //nolint:errcheck

			wg.Add(1)
			go func(queue string) {
				defer wg.Done()
				if err := consumer.Start(ctx); err != nil {
					logr.Error("rabbitmq consumer stopped", zap.String("queue", queue), zap.Error(err))
					stop()
				}
			}(c.queue)
		}
	} else {
		logr.Info("rabbitmq consumers disabled, serving webhooks only")
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logr.Error("http server shutdown failed", zap.Error(err))
		}
	}()

	logr.Info("orchestrator starting",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("notification_topic", producer.Topic()),
		zap.Bool("broadcast", channel != nil),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Fatal("http server failed", zap.Error(err))
	}

	wg.Wait()
	if err := producer.Close(context.Background()); err != nil {
		logr.Error("kafka producer close failed", zap.Error(err))
	}
	if redisPub != nil {
		if err := redisPub.Close(); err != nil {
			logr.Error("redis close failed", zap.Error(err))
		}
	}
	logr.Info("orchestrator stopped")
}
