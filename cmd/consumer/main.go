package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ttd2089/ringdeque/internal/config"
	"github.com/ttd2089/ringdeque/internal/list"
	"github.com/ttd2089/ringdeque/internal/messages"
	"github.com/ttd2089/ringdeque/internal/metrics"
	"github.com/ttd2089/ringdeque/internal/ringbuf"
)

type appConfig struct {
	HTTPPort         string `config_key:"http.listen-port" config_default:"8080"`
	HTTPWWWDir       string `config_key:"http.www-dir" config_default:"www"`
	BootstrapServers string `config_key:"kafka.consumer.bootstrap-servers"`
	ConsumerGroupID  string `config_key:"kafka.consumer.group-id"`
	ConsumeTopic     string `config_key:"kafka.consumer.topic" config_default:"messages"`
	RetentionSeconds int    `config_key:"stats.retention-seconds" config_default:"300"`
	RecentMessages   int    `config_key:"stats.recent-messages" config_default:"50"`
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

	reg := prometheus.NewRegistry()
	stats := metrics.NewCount(cfg.RetentionSeconds, metrics.WithRegisterer(reg))
	defer stats.Close()

	handler, err := newHandler(stats, cfg.RecentMessages)
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}

	statsServer := newStatsServer(
		fmt.Sprintf(":%s", cfg.HTTPPort),
		stats,
		handler,
		reg,
		cfg.HTTPWWWDir)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := statsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown stats server", "error", err)
		}
	}()

	consumer, err := buildConsumer(cfg)
	if err != nil {
		return fmt.Errorf("build Kafka consumer: %w", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Error("close consumer", "error", err)
		}
	}()

	for !isCancelled(ctx) {
		msg, err := consumer.Consume(ctx)
		if err != nil {
			if isCancelled(ctx) {
				break
			}
			slog.Error("consume", "error", err)
			<-time.After(5 * time.Second)
			continue
		}

		if err := handler.Handle(ctx, msg); err != nil {
			return fmt.Errorf("handle msg: %w", err)
		}

		if err := consumer.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}

	return nil
}

type kafkaConsumer struct {
	kc *kafka.Consumer
}

func (kc kafkaConsumer) Close() error {
	return kc.kc.Close()
}

func (kc kafkaConsumer) Consume(ctx context.Context) (messages.Message, error) {
	for !isCancelled(ctx) {
		event := kc.kc.Poll(50)
		switch event := event.(type) {
		case *kafka.Message:
			msg := messages.Message{}
			if err := json.Unmarshal(event.Value, &msg); err != nil {
				slog.Error("decode message", "error", err, "offset", event.TopicPartition.Offset)
				continue
			}
			return msg, nil
		case kafka.PartitionEOF:
			<-time.After(time.Second)
		case kafka.Error:
			slog.Error("consume", "error", event.Error(), "code", event.Code())
		}
	}

	return messages.Message{}, ctx.Err()
}

func (kc kafkaConsumer) Commit(_ context.Context) error {
	_, err := kc.kc.Commit()
	if err != nil {
		return err
	}
	return nil
}

func buildConsumer(cfg appConfig) (kafkaConsumer, error) {

	kc, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.BootstrapServers,
		"group.id":           cfg.ConsumerGroupID,
		"auto.offset.reset":  "latest",
		"enable.auto.commit": "false",
	})
	if err != nil {
		return kafkaConsumer{}, fmt.Errorf("create Kafka consumer: %w", err)
	}

	err = kc.Subscribe(cfg.ConsumeTopic, func(c *kafka.Consumer, e kafka.Event) error {
		slog.Info("rebalance", "event", e.String())
		return nil
	})
	if err != nil {
		return kafkaConsumer{}, fmt.Errorf("subscribe: %w", err)
	}

	return kafkaConsumer{
		kc: kc,
	}, nil
}

// handler counts every message and keeps the most recent ones, newest first.
type handler struct {
	stats     *metrics.Count
	maxRecent int

	mu     sync.Mutex
	recent *list.List[messages.Message]
}

func newHandler(stats *metrics.Count, maxRecent int) (*handler, error) {
	recent, err := ringbuf.NewWithCapacity[messages.Message](maxRecent)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	return &handler{
		stats:     stats,
		maxRecent: maxRecent,
		recent:    list.Wrap(recent),
	}, nil
}

func (h *handler) Handle(_ context.Context, msg messages.Message) error {
	h.stats.Record(msg.Key(), 1)

	h.mu.Lock()
	defer h.mu.Unlock()
	recent := h.recent.Deque()
	if recent.Len() == h.maxRecent {
		if _, err := recent.RemoveFromBack(); err != nil {
			return fmt.Errorf("evict recent message: %w", err)
		}
	}
	recent.AddToFront(msg)
	return nil
}

// Recent returns up to n of the most recent messages, newest first.
func (h *handler) Recent(n int) []messages.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]messages.Message, h.recent.Len())
	if err := h.recent.CopyTo(out, 0); err != nil {
		slog.Error("copy recent messages", "error", err)
		return nil
	}
	return out[:min(n, len(out))]
}

// RecentFor returns the recent messages from one customer, newest first.
func (h *handler) RecentFor(customerID string) []messages.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := []messages.Message{}
	for v := range h.recent.Values() {
		if msg := v.(messages.Message); msg.CustomerID == customerID {
			out = append(out, msg)
		}
	}
	return out
}

func isCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
