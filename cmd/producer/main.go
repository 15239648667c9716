package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/ttd2089/ringdeque/internal/config"
	"github.com/ttd2089/ringdeque/internal/messages"
	"github.com/ttd2089/ringdeque/internal/ratelimit"
)

type appConfig struct {
	BootstrapServers string        `config_key:"kafka.producer.bootstrap-servers"`
	ProduceTopic     string        `config_key:"kafka.producer.topic" config_default:"messages"`
	MaxRPS           int           `config_key:"producer.max-rps" config_default:"1000"`
	RatePeriod       time.Duration `config_key:"producer.rate-period" config_default:"1s"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Parse[appConfig](config.EnvMap{})
	if err != nil {
		return fmt.Errorf("parse app config: %w", err)
	}

	limiter, err := ratelimit.NewWindow(cfg.MaxRPS, cfg.RatePeriod)
	if err != nil {
		return fmt.Errorf("build rate limiter: %w", err)
	}

	producer, err := buildProducer(cfg)
	if err != nil {
		return fmt.Errorf("build Kafka producer: %w", err)
	}

	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer producer.Close()

		customerIDs := []string{
			"faa108f9-0815-4035-89c4-403b4f2f7948",
			"e62358f4-47bb-4a45-9db3-a1c5ad6cdab2",
			"139b70a3-60e8-47a0-9b7d-d8a369d18417",
			"432556b3-0a3b-4dbb-83fc-187115228f67",
		}
		types := []string{
			"foo",
			"bar",
			"baz",
		}

		perEvent := cfg.RatePeriod.Nanoseconds() / int64(cfg.MaxRPS)

		for !isCancelled(ctx) {

			// Make message publishing "naturally" use ~90% of its rate limit. This will ensure we
			// hit the rate limit but smooth it out some instead of sending in predictable batches.
			naturalDelay := (rand.Int63n(max(1, perEvent)) * 9) / 10
			<-time.After(time.Duration(naturalDelay))

			msg := messages.Message{
				CustomerID: customerIDs[rand.Int()%len(customerIDs)],
				Type:       types[rand.Int()%len(types)],
			}
			msg.Body = fmt.Sprintf("[%v]: %q message for customer %q", time.Now(), msg.Type, msg.CustomerID)

			msgValue, err := json.Marshal(msg)
			if err != nil {
				panic(fmt.Errorf("failed to marshal messages.Message to JSON: %v", err))
			}

			timestamp := time.Now()
			limiter.Expire(timestamp)
			if delay := limiter.Delay(timestamp); delay > 0 {
				slog.Info("delaying for rate limit", "delay", delay, "window", limiter.Len())
				<-time.After(delay)
				timestamp = time.Now()
			}

			err = producer.Produce(&kafka.Message{
				TopicPartition: kafka.TopicPartition{
					Topic:     &cfg.ProduceTopic,
					Partition: kafka.PartitionAny,
				},
				Key:       []byte(msg.Key()),
				Value:     msgValue,
				Timestamp: timestamp,
			}, nil)
			if err != nil {
				slog.Error("produce message", "error", err)
				continue
			}

			limiter.Record(timestamp)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					slog.Error("delivery failed", "error", ev.TopicPartition.Error)
				}
			}
		}
	}()

	wg.Wait()

	return nil
}

func buildProducer(cfg appConfig) (*kafka.Producer, error) {
	kp, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.BootstrapServers,
	})
	if err != nil {
		return nil, fmt.Errorf("create Kafka producer: %w", err)
	}
	return kp, nil
}

func isCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
