package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_booking: invalid input data", domain.ErrValidation)

	// ErrArrivalBeforeBedspaceStart возвращается, когда заезд раньше даты ввода койко-места
	ErrArrivalBeforeBedspaceStart = fmt.Errorf("%w: create_booking: arrival is before the bedspace start date", domain.ErrValidation)

	// ErrBedspaceNotFound возвращается, когда койко-место не найдено
	ErrBedspaceNotFound = fmt.Errorf("%w: create_booking: bedspace not found", domain.ErrNotFound)

	// ErrConcurrentBooking возвращается, когда конкурентная запись заняла койко-место
	// Операцию можно повторить целиком, перечитав состояние
	ErrConcurrentBooking = fmt.Errorf("%w: create_booking: concurrent write to the same bedspace", domain.ErrConcurrencyConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
