package create_void

import (
	"context"

	createVoid "github.com/m04kA/SMC-AccommodationService/internal/usecase/create_void"
)

type CreateVoidUseCase interface {
	Execute(ctx context.Context, req *createVoid.Request) (*createVoid.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
