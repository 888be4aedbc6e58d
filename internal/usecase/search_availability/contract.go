package search_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/integrations/personservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveByBedspaces(ctx context.Context, bedspaceIDs []int64, rng domain.DateRange, lookbackDays int) ([]domain.Booking, error)
}

// BedspaceRepository интерфейс репозитория койко-мест
type BedspaceRepository interface {
	// ListByIDs возвращает только существующие койко-места
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Bedspace, error)
}

// VoidRepository интерфейс репозитория периодов простоя
type VoidRepository interface {
	ListActiveByBedspaces(ctx context.Context, bedspaceIDs []int64, rng domain.DateRange) ([]domain.VoidPeriod, error)
}

// PersonServiceClient интерфейс клиента сервиса данных о людях
type PersonServiceClient interface {
	GetRiskFlagsWithGracefulDegradation(ctx context.Context, crns []string) (personservice.RiskFlags, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// EndDater срок блокировки койко-места бронированием
type EndDater interface {
	EffectiveEndDate(b *domain.Booking) time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
