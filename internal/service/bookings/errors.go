package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: booking not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrAlreadyRecorded возвращается при повторной неявке или подтверждении
	ErrAlreadyRecorded = fmt.Errorf("%w: record already exists for booking", domain.ErrValidation)

	// ErrArrivalBeforeBedspaceStart возвращается, когда заезд раньше ввода койко-места в эксплуатацию
	ErrArrivalBeforeBedspaceStart = fmt.Errorf("%w: arrival is before bedspace start date", domain.ErrValidation)

	// ErrConcurrentUpdate возвращается, когда бронирование изменилось конкурентно
	ErrConcurrentUpdate = fmt.Errorf("%w: booking was modified concurrently", domain.ErrConcurrencyConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
