package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Dhoini/Subscription-dashboard/internal/domain"
	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// Топики событий движка уведомлений
const (
	TopicSubscriptionExpired    = "subscription_expired"
	TopicNotificationsGenerated = "notifications_generated"
)

// SubscriptionExpiredEvent событие перехода подписки в статус expired
type SubscriptionExpiredEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NotificationsGeneratedEvent сводка завершенного прохода генерации уведомлений
type NotificationsGeneratedEvent struct {
	NotificationsCreated int       `json:"notifications_created"`
	SubscriptionsUpdated int       `json:"subscriptions_updated"`
	SkippedMissingRefs   int       `json:"skipped_missing_refs"`
	OccurredAt           time.Time `json:"occurred_at"`
}

// Producer определяет интерфейс для публикации событий в Kafka.
type Producer interface {
	// PublishSubscriptionExpired отправляет событие истечения подписки.
	// Ключ сообщения — ID подписки, чтобы события одной подписки
	// попадали в одну партицию.
	PublishSubscriptionExpired(ctx context.Context, update domain.StatusUpdate) error
	// PublishNotificationsGenerated отправляет сводку завершенного прохода.
	PublishNotificationsGenerated(ctx context.Context, event NotificationsGeneratedEvent) error
	// Close закрывает соединение продюсера Kafka.
	Close() error
}

// kafkaProducer реализует интерфейс Producer, используя segmentio/kafka-go.
type kafkaProducer struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaProducer создает и настраивает новый продюсер Kafka.
func NewKafkaProducer(brokers []string, log *logger.Logger) (Producer, error) {
	if len(brokers) == 0 {
		log.Errorw("Kafka brokers list is empty in config, cannot create producer")
		return nil, errors.New("kafka brokers are not configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	log.Infow("Kafka producer initialized", "brokers", brokers)

	return &kafkaProducer{
		writer: writer,
		log:    log,
	}, nil
}

// PublishSubscriptionExpired отправляет событие истечения подписки в Kafka.
func (k *kafkaProducer) PublishSubscriptionExpired(ctx context.Context, update domain.StatusUpdate) error {
	event := SubscriptionExpiredEvent{
		SubscriptionID: update.SubscriptionID.String(),
		OccurredAt:     time.Now(),
	}

	return k.publish(ctx, TopicSubscriptionExpired, []byte(event.SubscriptionID), event)
}

// PublishNotificationsGenerated отправляет сводку прохода в Kafka.
func (k *kafkaProducer) PublishNotificationsGenerated(ctx context.Context, event NotificationsGeneratedEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	return k.publish(ctx, TopicNotificationsGenerated, nil, event)
}

func (k *kafkaProducer) publish(ctx context.Context, topic string, key []byte, payload interface{}) error {
	messageValue, err := json.Marshal(payload)
	if err != nil {
		k.log.Errorw("Failed to marshal event to JSON for Kafka", "error", err, "topic", topic)
		return fmt.Errorf("kafka: failed to marshal message data: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   key,
		Value: messageValue,
		Time:  time.Now(),
	}

	// Используем контекст с таймаутом, чтобы избежать зависания
	writeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(writeCtx, message); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			k.log.Errorw("Kafka write timeout exceeded", "error", err, "topic", topic)
			return fmt.Errorf("kafka: write timeout: %w", err)
		}
		k.log.Errorw("Failed to write message to Kafka", "error", err, "topic", topic)
		return fmt.Errorf("kafka: failed to write message: %w", err)
	}

	k.log.Debugw("Successfully published message to Kafka", "topic", topic)
	return nil
}

// Close закрывает Kafka Writer. Вызывается при graceful shutdown.
func (k *kafkaProducer) Close() error {
	k.log.Infow("Closing Kafka producer writer...")
	if err := k.writer.Close(); err != nil {
		k.log.Errorw("Failed to close Kafka writer", "error", err)
		return fmt.Errorf("kafka: failed to close writer: %w", err)
	}
	return nil
}

// NoOpProducer заглушка продюсера: используется, когда Kafka не сконфигурирована.
// Публикация событий не критична для основного флоу генерации уведомлений.
type NoOpProducer struct{}

func (NoOpProducer) PublishSubscriptionExpired(context.Context, domain.StatusUpdate) error {
	return nil
}

func (NoOpProducer) PublishNotificationsGenerated(context.Context, NotificationsGeneratedEvent) error {
	return nil
}

func (NoOpProducer) Close() error { return nil }
