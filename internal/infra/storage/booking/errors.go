package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: booking.repository: booking not found", domain.ErrNotFound)

	// ErrVersionConflict возвращается, когда версия строки изменилась с момента чтения
	ErrVersionConflict = fmt.Errorf("%w: booking.repository: version mismatch", domain.ErrConcurrencyConflict)

	// ErrOccupied возвращается, когда EXCLUDE constraint отклонил пересекающееся бронирование
	ErrOccupied = fmt.Errorf("%w: booking.repository: bedspace already occupied", domain.ErrConcurrencyConflict)

	// ErrConcurrentWrite возвращается, когда PostgreSQL отклонил запись из-за конкурентной транзакции
	ErrConcurrentWrite = fmt.Errorf("%w: booking.repository: concurrent write", domain.ErrConcurrencyConflict)

	// ErrDuplicateRecord возвращается при повторной записи неявки или подтверждения
	ErrDuplicateRecord = fmt.Errorf("%w: booking.repository: record already exists", domain.ErrValidation)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
