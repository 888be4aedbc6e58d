package extend_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: extend_booking: invalid input data", domain.ErrValidation)

	// ErrArrivalLocked возвращается при попытке сдвинуть заезд после фактического заезда
	ErrArrivalLocked = fmt.Errorf("%w: extend_booking: arrival date cannot change after arrival", domain.ErrValidation)

	// ErrArrivalBeforeBedspaceStart возвращается, когда новый заезд раньше даты ввода койко-места
	ErrArrivalBeforeBedspaceStart = fmt.Errorf("%w: extend_booking: arrival is before the bedspace start date", domain.ErrValidation)

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: extend_booking: booking not found", domain.ErrNotFound)

	// ErrStaleVersion возвращается, когда бронирование изменилось после чтения клиентом
	ErrStaleVersion = fmt.Errorf("%w: extend_booking: booking was modified concurrently", domain.ErrConcurrencyConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("extend_booking: internal error")
)
