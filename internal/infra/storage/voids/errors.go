package voids

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrVoidNotFound возвращается, когда период простоя не найден
	ErrVoidNotFound = fmt.Errorf("%w: voids.repository: void period not found", domain.ErrNotFound)

	// ErrAlreadyCancelled возвращается при повторной отмене периода простоя
	ErrAlreadyCancelled = fmt.Errorf("%w: voids.repository: void period already cancelled", domain.ErrValidation)

	// ErrConcurrentWrite возвращается, когда PostgreSQL отклонил запись из-за конкурентной транзакции
	ErrConcurrentWrite = fmt.Errorf("%w: voids.repository: concurrent write", domain.ErrConcurrencyConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("voids.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("voids.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("voids.repository: failed to scan row")
)
