package bedspace

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrBedspaceNotFound возвращается, когда койко-место не найдено
	ErrBedspaceNotFound = fmt.Errorf("%w: bedspace.repository: bedspace not found", domain.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("bedspace.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("bedspace.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("bedspace.repository: failed to scan row")
)
