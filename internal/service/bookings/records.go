package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/bookingstatus"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings/models"
)

// RecordArrival регистрирует фактический заезд
// Даты бронирования становятся фактическим заездом и ожидаемым выездом
func (s *Service) RecordArrival(ctx context.Context, bookingID int64, req *models.ArrivalRequest) (*models.BookingResponse, error) {
	s.logger.Info("RecordArrival: booking id=%d, date=%s", bookingID, req.ArrivalDate.Format(domain.DateFormat))

	if req.ArrivalDate.IsZero() {
		return nil, fmt.Errorf("%w: arrival date is required", ErrInvalidInput)
	}
	if err := validateNotes(req.Notes); err != nil {
		return nil, err
	}
	arrivalDate := domain.TruncateDay(req.ArrivalDate)

	return s.mutate(ctx, mutation{
		op:              "RecordArrival",
		bookingID:       bookingID,
		expectedVersion: req.ExpectedVersion,
		action:          bookingstatus.ActionArrive,
		event:           domain.EventBookingArrived,
		apply: func(txCtx context.Context, b *domain.Booking, _ time.Time) error {
			expectedDeparture := b.DepartureDate
			if !req.ExpectedDepartureDate.IsZero() {
				expectedDeparture = domain.TruncateDay(req.ExpectedDepartureDate)
			}
			if expectedDeparture.Before(arrivalDate) {
				return fmt.Errorf("%w: expected departure %s is before arrival %s", ErrInvalidInput,
					expectedDeparture.Format(domain.DateFormat), arrivalDate.Format(domain.DateFormat))
			}

			if !arrivalDate.Equal(b.ArrivalDate) || !expectedDeparture.Equal(b.DepartureDate) {
				candidate := domain.DateRange{
					Start: arrivalDate,
					End:   s.scheduler.EndDate(expectedDeparture, b.TurnaroundWorkingDays()),
				}
				if err := s.ensureClear(txCtx, b, candidate); err != nil {
					return err
				}

				// Сдвиг дат при заезде попадает в аудит изменений
				extension := &domain.Extension{
					RecordMeta:            domain.RecordMeta{BookingID: b.ID},
					PreviousArrivalDate:   b.ArrivalDate,
					NewArrivalDate:        arrivalDate,
					PreviousDepartureDate: b.DepartureDate,
					NewDepartureDate:      expectedDeparture,
					Notes:                 req.Notes,
				}
				if err := s.bookingRepo.AddExtension(txCtx, extension); err != nil {
					return err
				}
				b.Extensions = append(b.Extensions, *extension)
			}

			arrival := &domain.Arrival{
				RecordMeta:            domain.RecordMeta{BookingID: b.ID},
				ArrivalDate:           arrivalDate,
				ExpectedDepartureDate: expectedDeparture,
				Notes:                 req.Notes,
			}
			if err := s.bookingRepo.AddArrival(txCtx, arrival); err != nil {
				return err
			}

			b.Arrivals = append(b.Arrivals, *arrival)
			b.ArrivalDate = arrivalDate
			b.DepartureDate = expectedDeparture
			return nil
		},
	})
}

// RecordDeparture регистрирует фактический выезд
// Дата выезда бронирования становится фактической, turnaround отсчитывается от нее
func (s *Service) RecordDeparture(ctx context.Context, bookingID int64, req *models.DepartureRequest) (*models.BookingResponse, error) {
	s.logger.Info("RecordDeparture: booking id=%d, date=%s", bookingID, req.DepartureDate.Format(domain.DateFormat))

	if req.DepartureDate.IsZero() {
		return nil, fmt.Errorf("%w: departure date is required", ErrInvalidInput)
	}
	reason, err := validateReason(req.Reason)
	if err != nil {
		return nil, err
	}
	if err := validateNotes(req.Notes); err != nil {
		return nil, err
	}
	departureDate := domain.TruncateDay(req.DepartureDate)

	return s.mutate(ctx, mutation{
		op:              "RecordDeparture",
		bookingID:       bookingID,
		expectedVersion: req.ExpectedVersion,
		action:          bookingstatus.ActionDepart,
		event:           domain.EventBookingDeparted,
		apply: func(txCtx context.Context, b *domain.Booking, _ time.Time) error {
			if departureDate.Before(b.ArrivalDate) {
				return fmt.Errorf("%w: departure %s is before arrival %s", ErrInvalidInput,
					departureDate.Format(domain.DateFormat), b.ArrivalDate.Format(domain.DateFormat))
			}

			// Поздний выезд продлевает занятость
			if departureDate.After(b.DepartureDate) {
				candidate := domain.DateRange{
					Start: b.ArrivalDate,
					End:   s.scheduler.EndDate(departureDate, b.TurnaroundWorkingDays()),
				}
				if err := s.ensureClear(txCtx, b, candidate); err != nil {
					return err
				}
			}

			departure := &domain.Departure{
				RecordMeta:     domain.RecordMeta{BookingID: b.ID},
				DepartureDate:  departureDate,
				Reason:         reason,
				MoveOnCategory: req.MoveOnCategory,
				Notes:          req.Notes,
			}
			if err := s.bookingRepo.AddDeparture(txCtx, departure); err != nil {
				return err
			}

			b.Departures = append(b.Departures, *departure)
			b.DepartureDate = departureDate
			return nil
		},
	})
}

// Cancel отменяет бронирование
// Отмена необратима: бронирование перестает занимать койко-место
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancellationRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	reason, err := validateReason(req.Reason)
	if err != nil {
		return nil, err
	}
	if err := validateNotes(req.Notes); err != nil {
		return nil, err
	}

	return s.mutate(ctx, mutation{
		op:              "Cancel",
		bookingID:       bookingID,
		expectedVersion: req.ExpectedVersion,
		action:          bookingstatus.ActionCancel,
		event:           domain.EventBookingCancelled,
		apply: func(txCtx context.Context, b *domain.Booking, now time.Time) error {
			date := domain.TruncateDay(now)
			if !req.Date.IsZero() {
				date = domain.TruncateDay(req.Date)
			}

			cancellation := &domain.Cancellation{
				RecordMeta: domain.RecordMeta{BookingID: b.ID},
				Date:       date,
				Reason:     reason,
				Notes:      req.Notes,
			}
			if err := s.bookingRepo.AddCancellation(txCtx, cancellation); err != nil {
				return err
			}

			b.Cancellations = append(b.Cancellations, *cancellation)
			return nil
		},
	})
}

// RecordNonArrival регистрирует неявку; допускается одна на бронирование
func (s *Service) RecordNonArrival(ctx context.Context, bookingID int64, req *models.NonArrivalRequest) (*models.BookingResponse, error) {
	s.logger.Info("RecordNonArrival: booking id=%d", bookingID)

	reason, err := validateReason(req.Reason)
	if err != nil {
		return nil, err
	}
	if err := validateNotes(req.Notes); err != nil {
		return nil, err
	}

	return s.mutate(ctx, mutation{
		op:              "RecordNonArrival",
		bookingID:       bookingID,
		expectedVersion: req.ExpectedVersion,
		action:          bookingstatus.ActionNonArrive,
		event:           domain.EventBookingNotArrived,
		apply: func(txCtx context.Context, b *domain.Booking, _ time.Time) error {
			if b.NonArrival != nil {
				return ErrAlreadyRecorded
			}

			date := b.ArrivalDate
			if !req.Date.IsZero() {
				date = domain.TruncateDay(req.Date)
			}

			nonArrival := &domain.NonArrival{
				RecordMeta: domain.RecordMeta{BookingID: b.ID},
				Date:       date,
				Reason:     reason,
				Notes:      req.Notes,
			}
			if err := s.bookingRepo.AddNonArrival(txCtx, nonArrival); err != nil {
				return duplicateAsAlreadyRecorded(err)
			}

			b.NonArrival = nonArrival
			return nil
		},
	})
}

// Confirm подтверждает предварительное бронирование; допускается одно подтверждение
func (s *Service) Confirm(ctx context.Context, bookingID int64, req *models.ConfirmationRequest) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: booking id=%d", bookingID)

	if err := validateNotes(req.Notes); err != nil {
		return nil, err
	}

	return s.mutate(ctx, mutation{
		op:              "Confirm",
		bookingID:       bookingID,
		expectedVersion: req.ExpectedVersion,
		action:          bookingstatus.ActionConfirm,
		event:           domain.EventBookingConfirmed,
		apply: func(txCtx context.Context, b *domain.Booking, _ time.Time) error {
			if b.Confirmation != nil {
				return ErrAlreadyRecorded
			}

			confirmation := &domain.Confirmation{
				RecordMeta: domain.RecordMeta{BookingID: b.ID},
				Notes:      req.Notes,
			}
			if err := s.bookingRepo.AddConfirmation(txCtx, confirmation); err != nil {
				return duplicateAsAlreadyRecorded(err)
			}

			b.Confirmation = confirmation
			return nil
		},
	})
}

// ChangeTurnaround добавляет новую запись turnaround; действует самая новая
func (s *Service) ChangeTurnaround(ctx context.Context, bookingID int64, req *models.TurnaroundRequest) (*models.BookingResponse, error) {
	s.logger.Info("ChangeTurnaround: booking id=%d, workingDays=%d", bookingID, req.WorkingDays)

	if req.WorkingDays < domain.MinTurnaroundWorkingDays || req.WorkingDays > domain.MaxTurnaroundWorkingDays {
		return nil, fmt.Errorf("%w: turnaround must be between %d and %d working days", ErrInvalidInput,
			domain.MinTurnaroundWorkingDays, domain.MaxTurnaroundWorkingDays)
	}

	return s.mutate(ctx, mutation{
		op:              "ChangeTurnaround",
		bookingID:       bookingID,
		expectedVersion: req.ExpectedVersion,
		action:          bookingstatus.ActionChangeTurnaround,
		event:           domain.EventBookingTurnaroundChanged,
		apply: func(txCtx context.Context, b *domain.Booking, _ time.Time) error {
			if req.WorkingDays > b.TurnaroundWorkingDays() {
				candidate := domain.DateRange{
					Start: b.ArrivalDate,
					End:   s.scheduler.EndDate(b.DepartureDate, req.WorkingDays),
				}
				if err := s.ensureClear(txCtx, b, candidate); err != nil {
					return err
				}
			}

			t := &domain.Turnaround{
				RecordMeta:      domain.RecordMeta{BookingID: b.ID},
				WorkingDayCount: req.WorkingDays,
			}
			if err := s.bookingRepo.AddTurnaround(txCtx, t); err != nil {
				return err
			}

			b.Turnarounds = append(b.Turnarounds, *t)
			return nil
		},
	})
}

func validateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len(reason) > domain.MaxReasonLength {
		return "", fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return reason, nil
}

func validateNotes(notes *string) error {
	if notes != nil && len(*notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// duplicateAsAlreadyRecorded UNIQUE на booking_id мог сработать при гонке
func duplicateAsAlreadyRecorded(err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return fmt.Errorf("%w: %v", ErrAlreadyRecorded, err)
	}
	return err
}
