package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/application/service"
	"github.com/melevanoronha/admin-console/internal/config"
	"github.com/melevanoronha/admin-console/pkg/logger"
	"github.com/melevanoronha/admin-console/pkg/metrics"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ContentEventHandler processes one decoded event. A failed event is logged and
// not committed, but the next successful commit moves the group offset past it,
// so it is only delivered again if the consumer restarts before that commit.
type ContentEventHandler func(ctx context.Context, e service.ContentEvent) error

type ContentEventConsumer struct {
	reader messageReader
	logger logger.Logger
}

func NewContentEventConsumer(cfg config.Config, log logger.Logger) (*ContentEventConsumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicContentEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &ContentEventConsumer{reader: reader, logger: log}, nil
}

func DecodeContentEvent(msg kafka.Message) (service.ContentEvent, error) {
	var e service.ContentEvent
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return e, err
	}
	if e.Entity == "" || e.EventType == "" {
		return e, fmt.Errorf("content event is missing entity or event_type")
	}
	return e, nil
}

// Run consumes until ctx is cancelled.
func (c *ContentEventConsumer) Run(ctx context.Context, handle ContentEventHandler) error {
	c.logger.Info("Worker listening", zap.String("topic", TopicContentEvents))
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		e, err := DecodeContentEvent(msg)
		if err != nil {
			c.logger.Warn("Skipping malformed content event", zap.String("key", string(msg.Key)), zap.Error(err))
			metrics.ContentEvents.WithLabelValues("consumed", "malformed").Inc()
			c.commit(ctx, msg)
			continue
		}

		if err := handle(ctx, e); err != nil {
			c.logger.Error("Failed to process content event", err, zap.String("entity", e.Entity), zap.String("id", e.ID))
			metrics.ContentEvents.WithLabelValues("consumed", "error").Inc()
			continue
		}

		metrics.ContentEvents.WithLabelValues("consumed", "ok").Inc()
		c.commit(ctx, msg)
	}
}

func (c *ContentEventConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err)
	}
}

func (c *ContentEventConsumer) Close() error {
	return c.reader.Close()
}
