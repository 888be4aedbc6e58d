package voids

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AccommodationService/pkg/pgerr"
	"github.com/m04kA/SMC-AccommodationService/pkg/psqlbuilder"
)

var voidColumns = []string{
	"v.id",
	"v.bedspace_id",
	"v.premises_id",
	"v.start_date",
	"v.end_date",
	"v.reason",
	"v.notes",
	"v.created_at",
	"c.id",
	"c.notes",
	"c.created_at",
}

// Repository репозиторий периодов простоя койко-мест
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория периодов простоя
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает период простоя
func (r *Repository) Create(ctx context.Context, v *domain.VoidPeriod) (*domain.VoidPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("void_periods").
		Columns("premises_id", "bedspace_id", "start_date", "end_date", "reason", "notes").
		Values(v.PremisesID, v.BedspaceID, v.StartDate, v.EndDate, v.Reason, v.Notes).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&v.ID, &v.CreatedAt); err != nil {
		return nil, writeError("Create", err)
	}

	return v, nil
}

// GetByID получает период простоя вместе с отменой, если она есть
// Внутри транзакции строка простоя блокируется (FOR UPDATE OF v)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.VoidPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(voidColumns...).
		From("void_periods v").
		LeftJoin("void_cancellations c ON c.void_id = v.id").
		Where(squirrel.Eq{"v.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF v")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	v, err := scanVoid(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVoidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan void: %v", ErrScanRow, err)
	}

	return v, nil
}

// ListActiveByBedspaces возвращает неотмененные периоды простоя, пересекающиеся с диапазоном
func (r *Repository) ListActiveByBedspaces(ctx context.Context, bedspaceIDs []int64, rng domain.DateRange) ([]domain.VoidPeriod, error) {
	if len(bedspaceIDs) == 0 {
		return []domain.VoidPeriod{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(voidColumns...).
		From("void_periods v").
		LeftJoin("void_cancellations c ON c.void_id = v.id").
		Where(squirrel.Eq{"v.bedspace_id": bedspaceIDs}).
		Where(squirrel.LtOrEq{"v.start_date": rng.End}).
		Where(squirrel.GtOrEq{"v.end_date": rng.Start}).
		Where("c.id IS NULL").
		OrderBy("v.bedspace_id ASC", "v.start_date ASC", "v.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByBedspaces - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByBedspaces - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.VoidPeriod, 0)
	for rows.Next() {
		v, err := scanVoid(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveByBedspaces - scan row: %v", ErrScanRow, err)
		}
		result = append(result, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveByBedspaces - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// AddCancellation отменяет период простоя; повторная отмена отклоняется UNIQUE(void_id)
func (r *Repository) AddCancellation(ctx context.Context, c *domain.VoidCancellation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("void_cancellations").
		Columns("void_id", "notes").
		Values(c.VoidID, c.Notes).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AddCancellation - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return writeError("AddCancellation", err)
	}

	return nil
}

func writeError(op string, err error) error {
	switch {
	case pgerr.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrAlreadyCancelled, op, err)
	case pgerr.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %v", ErrConcurrentWrite, op, err)
	case pgerr.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrVoidNotFound, op, err)
	default:
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVoid(row rowScanner) (*domain.VoidPeriod, error) {
	var v domain.VoidPeriod
	var cancellationID sql.NullInt64
	var cancellationNotes sql.NullString
	var cancelledAt sql.NullTime

	err := row.Scan(
		&v.ID,
		&v.BedspaceID,
		&v.PremisesID,
		&v.StartDate,
		&v.EndDate,
		&v.Reason,
		&v.Notes,
		&v.CreatedAt,
		&cancellationID,
		&cancellationNotes,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	v.StartDate = domain.TruncateDay(v.StartDate)
	v.EndDate = domain.TruncateDay(v.EndDate)

	if cancellationID.Valid {
		c := &domain.VoidCancellation{
			ID:        cancellationID.Int64,
			VoidID:    v.ID,
			CreatedAt: cancelledAt.Time,
		}
		if cancellationNotes.Valid {
			notes := cancellationNotes.String
			c.Notes = &notes
		}
		v.Cancellation = c
	}

	return &v, nil
}
