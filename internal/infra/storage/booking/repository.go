package booking

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

var bookingColumns = []string{
	"b.id",
	"b.crn",
	"b.premises_id",
	"b.bedspace_id",
	"b.arrival_date",
	"b.departure_date",
	"b.original_arrival_date",
	"b.original_departure_date",
	"b.status",
	"b.version",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями и их журналом событий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается внутри транзакции вместе с записью начального turnaround,
// чтобы бронирование без turnaround никогда не было зафиксировано.
// Пересечение с другим активным бронированием на уровне БД отклоняется EXCLUDE constraint.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"crn",
			"premises_id",
			"bedspace_id",
			"arrival_date",
			"departure_date",
			"original_arrival_date",
			"original_departure_date",
			"status",
			"version",
		).
		Values(
			booking.CRN,
			booking.PremisesID,
			booking.BedspaceID,
			booking.ArrivalDate,
			booking.DepartureDate,
			booking.OriginalArrivalDate,
			booking.OriginalDepartureDate,
			booking.Status,
			1,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.Version,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, writeError("Create", err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе со всеми записями журнала
// Внутри транзакции строка бронирования блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	if err := r.loadRecords(ctx, executor, []*domain.Booking{booking}); err != nil {
		return nil, err
	}

	return booking, nil
}

// ListActiveByBedspaces возвращает неотмененные бронирования указанных койко-мест,
// пересекающиеся с диапазоном r.
// lookbackDays расширяет диапазон назад: бронирование, выехавшее до r.Start,
// может продолжать блокировать койко-место своим turnaround.
func (r *Repository) ListActiveByBedspaces(ctx context.Context, bedspaceIDs []int64, rng domain.DateRange, lookbackDays int) ([]domain.Booking, error) {
	if len(bedspaceIDs) == 0 {
		return []domain.Booking{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.bedspace_id": bedspaceIDs}).
		Where(squirrel.LtOrEq{"b.arrival_date": rng.End}).
		Where(squirrel.GtOrEq{"b.departure_date": rng.Start.AddDate(0, 0, -lookbackDays)}).
		Where("NOT EXISTS (SELECT 1 FROM booking_cancellations c WHERE c.booking_id = b.id)").
		OrderBy("b.bedspace_id ASC", "b.arrival_date ASC", "b.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByBedspaces - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByBedspaces - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveByBedspaces - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveByBedspaces - rows error: %v", ErrScanRow, err)
	}

	if err := r.loadRecords(ctx, executor, bookings); err != nil {
		return nil, err
	}

	result := make([]domain.Booking, len(bookings))
	for i, b := range bookings {
		result[i] = *b
	}
	return result, nil
}

// Update сохраняет даты и кэш статуса бронирования с проверкой версии
// При успехе booking.Version увеличивается
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("arrival_date", booking.ArrivalDate).
		Set("departure_date", booking.DepartureDate).
		Set("status", booking.Status).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID, "version": booking.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.Version, &booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: Update - booking %d at version %d", ErrVersionConflict, booking.ID, booking.Version)
	}
	if err != nil {
		return writeError("Update", err)
	}

	return nil
}

// writeError переводит ошибки PostgreSQL в ошибки репозитория
func writeError(op string, err error) error {
	switch {
	case pgerr.IsExclusionViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrOccupied, op, err)
	case pgerr.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %v", ErrConcurrentWrite, op, err)
	case pgerr.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrDuplicateRecord, op, err)
	case pgerr.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrBookingNotFound, op, err)
	default:
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку бронирования и нормализует даты
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking

	err := row.Scan(
		&booking.ID,
		&booking.CRN,
		&booking.PremisesID,
		&booking.BedspaceID,
		&booking.ArrivalDate,
		&booking.DepartureDate,
		&booking.OriginalArrivalDate,
		&booking.OriginalDepartureDate,
		&booking.Status,
		&booking.Version,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.ArrivalDate = domain.TruncateDay(booking.ArrivalDate)
	booking.DepartureDate = domain.TruncateDay(booking.DepartureDate)
	booking.OriginalArrivalDate = domain.TruncateDay(booking.OriginalArrivalDate)
	booking.OriginalDepartureDate = domain.TruncateDay(booking.OriginalDepartureDate)

	return &booking, nil
}
