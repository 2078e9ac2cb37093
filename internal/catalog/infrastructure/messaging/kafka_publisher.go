package messaging

import (
	"context"

	"github.com/aurorajewels/storefront/internal/catalog/domain"
	"github.com/aurorajewels/storefront/pkg/mq"
)

// KafkaEventPublisher 基于 Kafka 的事件发布实现
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaEventPublisher 创建 Kafka 事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

// Publish 发布事件到指定主题
func (p *KafkaEventPublisher) Publish(ctx context.Context, topic string, key string, event interface{}) error {
	return p.producer.SendMessage(ctx, topic, key, event)
}
