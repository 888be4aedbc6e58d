package holiday

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AccommodationService/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("holiday.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("holiday.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("holiday.repository: failed to scan row")
)

// Repository источник праздничных дней для рабочего календаря
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория праздников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListHolidays возвращает все праздничные дни
func (r *Repository) ListHolidays(ctx context.Context) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date").
		From("holidays").
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holidays := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%w: ListHolidays - scan date: %v", ErrScanRow, err)
		}
		holidays = append(holidays, domain.TruncateDay(d))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - rows error: %v", ErrScanRow, err)
	}

	return holidays, nil
}
