package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/sustainatrend/trendboard/pkg/realtime"
)

// Publisher receives decoded live events; the dashboard hub satisfies it.
type Publisher interface {
	Publish(ctx context.Context, env realtime.Envelope) error
}

// Config groups the Kafka settings for sustainability event ingestion.
type Config struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Manager owns the background consumer lifecycle.
type Manager struct {
	wg       sync.WaitGroup
	consumer *consumer
}

// Start wires a Kafka reader for the sustainability events topic and begins
// forwarding decoded envelopes into the publisher.
func Start(ctx context.Context, cfg Config, pub Publisher, log *slog.Logger) (*Manager, error) {
	if pub == nil {
		return nil, fmt.Errorf("ingest: publisher must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("ingest: no kafka brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("ingest: topic must not be empty")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		GroupTopics: []string{cfg.Topic},
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	mgr := &Manager{
		consumer: &consumer{
			topic:  cfg.Topic,
			reader: reader,
			pub:    pub,
			log:    log.With(slog.String("topic", cfg.Topic)),
		},
	}
	mgr.wg.Add(1)
	go func() {
		defer mgr.wg.Done()
		mgr.consumer.run(ctx)
	}()
	return mgr, nil
}

// Wait blocks until the consumer has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// messageReader is the slice of kafka.Reader the consumer loop needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type consumer struct {
	topic  string
	reader messageReader
	pub    Publisher
	log    *slog.Logger
}

func (c *consumer) run(ctx context.Context) {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.log.Warn("kafka reader close failed", "error", err)
		}
	}()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			c.log.Error("kafka fetch failed", "error", err)
			return
		}
		env, err := realtime.DecodeEnvelope(msg.Value)
		if err != nil {
			// Poison messages are skipped, not retried.
			c.log.Warn("skipping malformed event", "offset", msg.Offset, "error", err)
		} else if err := c.pub.Publish(ctx, env); err != nil {
			c.log.Error("publish event failed", "event", env.Event, "error", err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Warn("kafka commit failed", "offset", msg.Offset, "error", err)
		}
	}
}
