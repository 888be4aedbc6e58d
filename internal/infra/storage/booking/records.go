package booking

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AccommodationService/pkg/psqlbuilder"
)

// Журнал бронирования append-only: записи только добавляются, никогда не изменяются.

// AddArrival добавляет запись о заезде
func (r *Repository) AddArrival(ctx context.Context, a *domain.Arrival) error {
	return r.insertRecord(ctx, "AddArrival", psqlbuilder.Insert("booking_arrivals").
		Columns("booking_id", "arrival_date", "expected_departure_date", "notes").
		Values(a.BookingID, a.ArrivalDate, a.ExpectedDepartureDate, a.Notes), &a.RecordMeta)
}

// AddDeparture добавляет запись о выезде
func (r *Repository) AddDeparture(ctx context.Context, d *domain.Departure) error {
	return r.insertRecord(ctx, "AddDeparture", psqlbuilder.Insert("booking_departures").
		Columns("booking_id", "departure_date", "reason", "move_on_category", "notes").
		Values(d.BookingID, d.DepartureDate, d.Reason, d.MoveOnCategory, d.Notes), &d.RecordMeta)
}

// AddCancellation добавляет запись об отмене
func (r *Repository) AddCancellation(ctx context.Context, c *domain.Cancellation) error {
	return r.insertRecord(ctx, "AddCancellation", psqlbuilder.Insert("booking_cancellations").
		Columns("booking_id", "date", "reason", "notes").
		Values(c.BookingID, c.Date, c.Reason, c.Notes), &c.RecordMeta)
}

// AddNonArrival добавляет запись о неявке (не более одной на бронирование)
func (r *Repository) AddNonArrival(ctx context.Context, n *domain.NonArrival) error {
	return r.insertRecord(ctx, "AddNonArrival", psqlbuilder.Insert("booking_non_arrivals").
		Columns("booking_id", "date", "reason", "notes").
		Values(n.BookingID, n.Date, n.Reason, n.Notes), &n.RecordMeta)
}

// AddConfirmation добавляет подтверждение (не более одного на бронирование)
func (r *Repository) AddConfirmation(ctx context.Context, c *domain.Confirmation) error {
	return r.insertRecord(ctx, "AddConfirmation", psqlbuilder.Insert("booking_confirmations").
		Columns("booking_id", "notes").
		Values(c.BookingID, c.Notes), &c.RecordMeta)
}

// AddExtension добавляет запись аудита изменения дат
func (r *Repository) AddExtension(ctx context.Context, e *domain.Extension) error {
	return r.insertRecord(ctx, "AddExtension", psqlbuilder.Insert("booking_extensions").
		Columns("booking_id", "previous_arrival_date", "new_arrival_date", "previous_departure_date", "new_departure_date", "notes").
		Values(e.BookingID, e.PreviousArrivalDate, e.NewArrivalDate, e.PreviousDepartureDate, e.NewDepartureDate, e.Notes), &e.RecordMeta)
}

// AddTurnaround добавляет turnaround; последний по времени создания является действующим
func (r *Repository) AddTurnaround(ctx context.Context, t *domain.Turnaround) error {
	return r.insertRecord(ctx, "AddTurnaround", psqlbuilder.Insert("booking_turnarounds").
		Columns("booking_id", "working_day_count").
		Values(t.BookingID, t.WorkingDayCount), &t.RecordMeta)
}

func (r *Repository) insertRecord(ctx context.Context, op string, insert squirrel.InsertBuilder, meta *domain.RecordMeta) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := insert.Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build insert query: %v", ErrBuildQuery, op, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&meta.ID, &meta.CreatedAt); err != nil {
		return writeError(op, err)
	}

	return nil
}

// loadRecords загружает журнал событий для набора бронирований
// Одна выборка на таблицу, записи упорядочены по (created_at, id)
func (r *Repository) loadRecords(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	index := make(map[int64]*domain.Booking, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		index[b.ID] = b
		ids = append(ids, b.ID)
	}

	loaders := []struct {
		op      string
		table   string
		columns []string
		scan    func(s rowScanner, b map[int64]*domain.Booking) error
	}{
		{"loadArrivals", "booking_arrivals", []string{"arrival_date", "expected_departure_date", "notes"}, scanArrival},
		{"loadDepartures", "booking_departures", []string{"departure_date", "reason", "move_on_category", "notes"}, scanDeparture},
		{"loadCancellations", "booking_cancellations", []string{"date", "reason", "notes"}, scanCancellation},
		{"loadNonArrivals", "booking_non_arrivals", []string{"date", "reason", "notes"}, scanNonArrival},
		{"loadConfirmations", "booking_confirmations", []string{"notes"}, scanConfirmation},
		{"loadExtensions", "booking_extensions", []string{"previous_arrival_date", "new_arrival_date", "previous_departure_date", "new_departure_date", "notes"}, scanExtension},
		{"loadTurnarounds", "booking_turnarounds", []string{"working_day_count"}, scanTurnaround},
	}

	for _, l := range loaders {
		columns := append([]string{"id", "booking_id", "created_at"}, l.columns...)
		query, args, err := psqlbuilder.Select(columns...).
			From(l.table).
			Where(squirrel.Eq{"booking_id": ids}).
			OrderBy("created_at ASC", "id ASC").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, l.op, err)
		}

		rows, err := executor.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, l.op, err)
		}

		for rows.Next() {
			if err := l.scan(rows, index); err != nil {
				rows.Close()
				return fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, l.op, err)
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, l.op, err)
		}
	}

	return nil
}

func scanArrival(s rowScanner, index map[int64]*domain.Booking) error {
	var a domain.Arrival
	if err := s.Scan(&a.ID, &a.BookingID, &a.CreatedAt, &a.ArrivalDate, &a.ExpectedDepartureDate, &a.Notes); err != nil {
		return err
	}
	a.ArrivalDate = domain.TruncateDay(a.ArrivalDate)
	a.ExpectedDepartureDate = domain.TruncateDay(a.ExpectedDepartureDate)
	if b, ok := index[a.BookingID]; ok {
		b.Arrivals = append(b.Arrivals, a)
	}
	return nil
}

func scanDeparture(s rowScanner, index map[int64]*domain.Booking) error {
	var d domain.Departure
	if err := s.Scan(&d.ID, &d.BookingID, &d.CreatedAt, &d.DepartureDate, &d.Reason, &d.MoveOnCategory, &d.Notes); err != nil {
		return err
	}
	d.DepartureDate = domain.TruncateDay(d.DepartureDate)
	if b, ok := index[d.BookingID]; ok {
		b.Departures = append(b.Departures, d)
	}
	return nil
}

func scanCancellation(s rowScanner, index map[int64]*domain.Booking) error {
	var c domain.Cancellation
	if err := s.Scan(&c.ID, &c.BookingID, &c.CreatedAt, &c.Date, &c.Reason, &c.Notes); err != nil {
		return err
	}
	c.Date = domain.TruncateDay(c.Date)
	if b, ok := index[c.BookingID]; ok {
		b.Cancellations = append(b.Cancellations, c)
	}
	return nil
}

func scanNonArrival(s rowScanner, index map[int64]*domain.Booking) error {
	var n domain.NonArrival
	if err := s.Scan(&n.ID, &n.BookingID, &n.CreatedAt, &n.Date, &n.Reason, &n.Notes); err != nil {
		return err
	}
	n.Date = domain.TruncateDay(n.Date)
	if b, ok := index[n.BookingID]; ok {
		b.NonArrival = &n
	}
	return nil
}

func scanConfirmation(s rowScanner, index map[int64]*domain.Booking) error {
	var c domain.Confirmation
	if err := s.Scan(&c.ID, &c.BookingID, &c.CreatedAt, &c.Notes); err != nil {
		return err
	}
	if b, ok := index[c.BookingID]; ok {
		b.Confirmation = &c
	}
	return nil
}

func scanExtension(s rowScanner, index map[int64]*domain.Booking) error {
	var e domain.Extension
	err := s.Scan(
		&e.ID,
		&e.BookingID,
		&e.CreatedAt,
		&e.PreviousArrivalDate,
		&e.NewArrivalDate,
		&e.PreviousDepartureDate,
		&e.NewDepartureDate,
		&e.Notes,
	)
	if err != nil {
		return err
	}
	e.PreviousArrivalDate = domain.TruncateDay(e.PreviousArrivalDate)
	e.NewArrivalDate = domain.TruncateDay(e.NewArrivalDate)
	e.PreviousDepartureDate = domain.TruncateDay(e.PreviousDepartureDate)
	e.NewDepartureDate = domain.TruncateDay(e.NewDepartureDate)
	if b, ok := index[e.BookingID]; ok {
		b.Extensions = append(b.Extensions, e)
	}
	return nil
}

func scanTurnaround(s rowScanner, index map[int64]*domain.Booking) error {
	var t domain.Turnaround
	if err := s.Scan(&t.ID, &t.BookingID, &t.CreatedAt, &t.WorkingDayCount); err != nil {
		return err
	}
	if b, ok := index[t.BookingID]; ok {
		b.Turnarounds = append(b.Turnarounds, t)
	}
	return nil
}
