package bedspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AccommodationService/pkg/psqlbuilder"
)

// Дата архивации койко-места учитывает архивацию помещения: LEAST игнорирует NULL,
// поэтому берется более ранняя из заданных дат.
var bedspaceColumns = []string{
	"b.id",
	"b.premises_id",
	"b.reference",
	"b.start_date",
	"LEAST(b.end_date, p.end_date)",
	"b.characteristics",
	"p.turnaround_working_days",
}

// Repository репозиторий койко-мест
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория койко-мест
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает койко-место по ID
// Внутри транзакции строка койко-места блокируется (FOR UPDATE OF b): все записи
// бронирований и простоев одного койко-места выполняются последовательно
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Bedspace, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bedspaceColumns...).
		From("bedspaces b").
		Join("premises p ON p.id = b.premises_id").
		Where(squirrel.Eq{"b.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	bs, err := scanBedspace(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBedspaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan bedspace: %v", ErrScanRow, err)
	}

	return bs, nil
}

// ListByIDs получает существующие койко-места из списка; отсутствующие ID пропускаются
func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]domain.Bedspace, error) {
	if len(ids) == 0 {
		return []domain.Bedspace{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bedspaceColumns...).
		From("bedspaces b").
		Join("premises p ON p.id = b.premises_id").
		Where(squirrel.Eq{"b.id": ids}).
		OrderBy("b.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bedspaces := make([]domain.Bedspace, 0, len(ids))
	for rows.Next() {
		bs, err := scanBedspace(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByIDs - scan row: %v", ErrScanRow, err)
		}
		bedspaces = append(bedspaces, *bs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByIDs - rows error: %v", ErrScanRow, err)
	}

	return bedspaces, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBedspace(row rowScanner) (*domain.Bedspace, error) {
	var bs domain.Bedspace
	var endDate sql.NullTime
	var turnaround sql.NullInt64

	err := row.Scan(
		&bs.ID,
		&bs.PremisesID,
		&bs.Reference,
		&bs.StartDate,
		&endDate,
		pq.Array(&bs.Characteristics),
		&turnaround,
	)
	if err != nil {
		return nil, err
	}

	bs.StartDate = domain.TruncateDay(bs.StartDate)
	if endDate.Valid {
		d := domain.TruncateDay(endDate.Time)
		bs.EndDate = &d
	}
	if turnaround.Valid {
		days := int(turnaround.Int64)
		bs.PremisesTurnaroundWorkingDays = &days
	}

	return &bs, nil
}
