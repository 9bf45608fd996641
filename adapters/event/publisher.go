package event

import (
	"github.com/melevanoronha/admin-console/internal/application/service"
	"github.com/melevanoronha/admin-console/internal/config"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// NewPublisher returns the Kafka producer when brokers are configured and a
// no-op publisher otherwise. The close func is always safe to call.
func NewPublisher(cfg config.Config, log logger.Logger) (service.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return NewNoopPublisher(log), func() {}, nil
	}
	producer, err := NewKafkaProducerClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return producer, producer.Close, nil
}
