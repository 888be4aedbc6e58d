// Package events publishes committed domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrMarshal возвращается, если событие не удалось сериализовать
	ErrMarshal = errors.New("events.publisher: failed to marshal event")

	// ErrWrite возвращается при ошибке записи в Kafka
	ErrWrite = errors.New("events.publisher: failed to write message")
)

const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// Envelope формат сообщения в топике; топик совпадает с типом события
type Envelope struct {
	EventID     string                 `json:"eventId"`
	EventType   string                 `json:"eventType"`
	AggregateID int64                  `json:"aggregateId"`
	CRN         string                 `json:"crn,omitempty"`
	BedspaceID  int64                  `json:"bedspaceId"`
	OccurredAt  time.Time              `json:"occurredAt"`
	Payload     map[string]interface{} `json:"payload"`
}

// KafkaPublisher публикует доменные события после фиксации транзакции
type KafkaPublisher struct {
	writer Writer
	logger Logger
	newID  func() string
}

// NewKafkaPublisher создает публикатор поверх kafka.Writer
// Ключ сообщения - ID агрегата, поэтому события одного бронирования попадают в одну партицию
func NewKafkaPublisher(brokers []string, writeTimeout time.Duration, logger Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}
	return NewKafkaPublisherWithWriter(writer, logger)
}

// NewKafkaPublisherWithWriter создает публикатор с заданным writer
func NewKafkaPublisherWithWriter(writer Writer, logger Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
}

// Publish отправляет событие в топик, совпадающий с его типом
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	eventID := p.newID()

	value, err := json.Marshal(Envelope{
		EventID:     eventID,
		EventType:   string(event.Type),
		AggregateID: event.AggregateID,
		CRN:         event.CRN,
		BedspaceID:  event.BedspaceID,
		OccurredAt:  event.OccurredAt.UTC(),
		Payload:     event.Payload,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMarshal, event.Type, err)
	}

	msg := kafka.Message{
		Topic: string(event.Type),
		Key:   []byte(strconv.FormatInt(event.AggregateID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(eventID)},
			{Key: HeaderEventType, Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, event.Type, err)
	}

	p.logger.Info("Publish: event %s %s aggregate=%d", eventID, event.Type, event.AggregateID)
	return nil
}

// Close закрывает соединения writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher используется, когда брокеры не настроены
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.Event) error { return nil }

func (NoopPublisher) Close() error { return nil }

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
