package premises

import (
	"context"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// PremisesRepository интерфейс репозитория помещений
type PremisesRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Premises, error)
	UpdateTurnaround(ctx context.Context, id int64, workingDays *int) (*domain.Premises, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
