package infrastructure

import "context"

// MessagePublisher отправляет события отзывов в брокер (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
