package extend_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/infra/lock"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListActiveByBedspaces(ctx context.Context, bedspaceIDs []int64, rng domain.DateRange, lookbackDays int) ([]domain.Booking, error)
	AddExtension(ctx context.Context, e *domain.Extension) error
	Update(ctx context.Context, booking *domain.Booking) error
}

// BedspaceRepository интерфейс репозитория койко-мест
type BedspaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Bedspace, error)
}

// VoidRepository интерфейс репозитория периодов простоя
type VoidRepository interface {
	ListActiveByBedspaces(ctx context.Context, bedspaceIDs []int64, rng domain.DateRange) ([]domain.VoidPeriod, error)
}

// Locker распределенная блокировка койко-места
type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Release, error)
}

// EventPublisher публикатор доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Metrics доменные метрики
type Metrics interface {
	IncConflict(kind string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
