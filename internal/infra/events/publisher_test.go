package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/pkg/logger"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(w, logger.Discard())
	p.newID = func() string { return "evt-1" }

	b := &domain.Booking{
		ID:            42,
		CRN:           "X320741",
		PremisesID:    3,
		BedspaceID:    7,
		ArrivalDate:   domain.Date(2024, 1, 5),
		DepartureDate: domain.Date(2024, 1, 8),
		Status:        domain.StatusProvisional,
	}
	occurred := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, p.Publish(context.Background(), domain.NewBookingEvent(domain.EventBookingProvisionallyMade, b, occurred)))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "accommodation.booking.provisionally-made", msg.Topic)
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, "evt-1", header(msg, HeaderEventID))
	assert.Equal(t, "accommodation.booking.provisionally-made", header(msg, HeaderEventType))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "evt-1", env.EventID)
	assert.Equal(t, int64(42), env.AggregateID)
	assert.Equal(t, "X320741", env.CRN)
	assert.Equal(t, int64(7), env.BedspaceID)
	assert.True(t, occurred.Equal(env.OccurredAt))
	assert.Equal(t, "2024-01-05", env.Payload["arrivalDate"])
	assert.Equal(t, "provisional", env.Payload["status"])
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPublisherWithWriter(w, logger.Discard())

	err := p.Publish(context.Background(), domain.NewVoidEvent(domain.EventVoidCreated, &domain.VoidPeriod{ID: 1}, time.Now()))

	assert.True(t, errors.Is(err, ErrWrite))
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitBrokers(""))
}
