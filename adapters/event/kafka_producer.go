package event

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/application/service"
	"github.com/melevanoronha/admin-console/internal/config"
	"github.com/melevanoronha/admin-console/pkg/logger"
	"github.com/melevanoronha/admin-console/pkg/metrics"
)

const TopicContentEvents = "content.events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ContentEventsWriter messageWriter
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'content.events'
	contentWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        TopicContentEvents,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}

	log.Info("Initialize Kafka Producers successfully", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		ContentEventsWriter: contentWriter,
		logger:              log,
	}, nil
}

// PublishContentEvent keys messages by entity and id so changes to one record stay ordered.
func (c *KafkaProducerClient) PublishContentEvent(ctx context.Context, e service.ContentEvent) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}

	err = c.ContentEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Entity + ":" + e.ID),
		Value: value,
	})
	if err != nil {
		metrics.ContentEvents.WithLabelValues("published", "error").Inc()
		return fmt.Errorf("publish content event: %w", err)
	}
	metrics.ContentEvents.WithLabelValues("published", "ok").Inc()
	c.logger.Debug("Content event published", zap.String("entity", e.Entity), zap.String("id", e.ID), zap.String("event_type", string(e.EventType)))
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ContentEventsWriter != nil {
		if err := c.ContentEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close Kafka writer", err)
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

// NoopPublisher drops events when no broker is configured.
type NoopPublisher struct {
	logger logger.Logger
}

func NewNoopPublisher(log logger.Logger) *NoopPublisher {
	return &NoopPublisher{logger: log}
}

func (p *NoopPublisher) PublishContentEvent(ctx context.Context, e service.ContentEvent) error {
	p.logger.Debug("Kafka disabled, content event dropped", zap.String("entity", e.Entity), zap.String("id", e.ID))
	return nil
}
