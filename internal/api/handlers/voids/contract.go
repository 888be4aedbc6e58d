package voids

import (
	"context"

	"github.com/m04kA/SMC-AccommodationService/internal/service/voids/models"
)

type VoidService interface {
	GetByID(ctx context.Context, id int64) (*models.VoidResponse, error)
	Cancel(ctx context.Context, id int64, req *models.CancelVoidRequest) (*models.VoidResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
