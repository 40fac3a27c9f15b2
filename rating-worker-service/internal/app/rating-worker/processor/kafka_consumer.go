package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurantreviews/pkg/logger"
	"restaurantreviews/pkg/metrics"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/entity"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/service"

	"github.com/segmentio/kafka-go"
)

const serviceName = "rating-worker-service"

// KafkaConsumer обрабатывает события из Kafka топика review_events
type KafkaConsumer struct {
	reader    *kafka.Reader
	ratingSvc service.RatingServiceInterface
	topic     string
	groupID   string
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	ratingSvc service.RatingServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: minBytes,
		MaxBytes: maxBytes,
		// Новая группа начинает с начала топика: пересчет идемпотентен
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:    reader,
		ratingSvc: ratingSvc,
		topic:     topic,
		groupID:   groupID,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и ждет завершения обработки текущего сообщения
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Error().Err(err).Msg("Error closing Kafka reader")
	}
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if readCtx.Err() == context.DeadlineExceeded {
					// Просто нет новых сообщений
					continue
				}

				logger.Error().Err(err).Msg("Error fetching message")
				metrics.RecordKafkaError(serviceName, c.topic, "fetch")
				time.Sleep(time.Second)
				continue
			}

			start := time.Now()
			if err := c.processMessage(ctx, message); err != nil {
				// Reader уже сдвинулся дальше, следующий коммит перекроет это сообщение.
				// Рейтинг ресторана поправит плановая сверка
				logger.Error().
					Err(err).
					Int("partition", message.Partition).
					Int64("offset", message.Offset).
					Msg("Error processing message")
				metrics.RecordKafkaError(serviceName, c.topic, "process")
				continue
			}

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Error().Err(err).Msg("Error committing message")
				metrics.RecordKafkaError(serviceName, c.topic, "commit")
				continue
			}
			metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, time.Since(start))
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.ReviewEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal review event: %w", err)
	}

	logger.Debug().
		Str("event_type", event.EventType).
		Str("review_id", event.ReviewID).
		Str("restaurant_id", event.RestaurantID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received review event")

	if err := c.ratingSvc.ProcessReviewEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to process review event: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
