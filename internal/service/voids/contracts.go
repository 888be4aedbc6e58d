package voids

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// VoidRepository интерфейс репозитория периодов простоя
type VoidRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.VoidPeriod, error)
	AddCancellation(ctx context.Context, c *domain.VoidCancellation) error
}

// EventPublisher публикатор доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
