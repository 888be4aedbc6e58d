package premises

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrPremisesNotFound возвращается, когда помещение не найдено
	ErrPremisesNotFound = fmt.Errorf("%w: premises.repository: premises not found", domain.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("premises.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("premises.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("premises.repository: failed to scan row")
)
