package premises

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AccommodationService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с помещениями и их настройками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория помещений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает помещение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Premises, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"turnaround_working_days",
		"end_date",
		"created_at",
		"updated_at",
	).
		From("premises").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Premises
	var turnaround sql.NullInt64
	var endDate sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&turnaround,
		&endDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPremisesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan premises: %v", ErrScanRow, err)
	}

	if turnaround.Valid {
		days := int(turnaround.Int64)
		p.TurnaroundWorkingDays = &days
	}
	if endDate.Valid {
		d := domain.TruncateDay(endDate.Time)
		p.EndDate = &d
	}

	return &p, nil
}

// UpdateTurnaround меняет turnaround по умолчанию для новых бронирований помещения
// nil сбрасывает значение, после чего действует значение из конфигурации сервиса
func (r *Repository) UpdateTurnaround(ctx context.Context, id int64, workingDays *int) (*domain.Premises, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("premises").
		Set("turnaround_working_days", workingDays).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTurnaround - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTurnaround - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTurnaround - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return nil, ErrPremisesNotFound
	}

	return r.GetByID(ctx, id)
}
