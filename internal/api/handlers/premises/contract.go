package premises

import (
	"context"

	"github.com/m04kA/SMC-AccommodationService/internal/service/premises/models"
)

type PremisesService interface {
	GetByID(ctx context.Context, id int64) (*models.PremisesResponse, error)
	UpdateTurnaround(ctx context.Context, id int64, req *models.UpdateTurnaroundRequest) (*models.PremisesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
