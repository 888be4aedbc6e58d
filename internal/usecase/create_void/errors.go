package create_void

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_void: invalid input data", domain.ErrValidation)

	// ErrBedspaceNotFound возвращается, когда койко-место не найдено
	ErrBedspaceNotFound = fmt.Errorf("%w: create_void: bedspace not found", domain.ErrNotFound)

	// ErrConcurrentWrite возвращается, когда конкурентная запись изменила койко-место
	ErrConcurrentWrite = fmt.Errorf("%w: create_void: concurrent write to the same bedspace", domain.ErrConcurrencyConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_void: internal error")
)
