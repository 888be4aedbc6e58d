package extend_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/bookingstatus"
	"github.com/m04kA/SMC-AccommodationService/internal/conflict"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/infra/lock"
	"github.com/m04kA/SMC-AccommodationService/internal/turnaround"
	"github.com/m04kA/SMC-AccommodationService/pkg/txmanager"
)

// UseCase use case для изменения дат бронирования (продление, перенос)
type UseCase struct {
	bookingRepo  BookingRepository
	bedspaceRepo BedspaceRepository
	voidRepo     VoidRepository
	locker       Locker
	publisher    EventPublisher
	metrics      Metrics
	txManager    TransactionManager
	scheduler    *turnaround.Scheduler
	detector     *conflict.Detector
	deriver      *bookingstatus.Deriver
	lookbackDays int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	bedspaceRepo BedspaceRepository,
	voidRepo VoidRepository,
	locker Locker,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	scheduler *turnaround.Scheduler,
	lookbackDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		bedspaceRepo: bedspaceRepo,
		voidRepo:     voidRepo,
		locker:       locker,
		publisher:    publisher,
		metrics:      metrics,
		txManager:    txManager,
		scheduler:    scheduler,
		detector:     conflict.NewDetector(),
		deriver:      bookingstatus.NewDeriver(scheduler),
		lookbackDays: lookbackDays,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case изменения дат
// Собственный интервал бронирования исключается из проверки пересечений
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExtendBooking: booking=%d, version=%d, departure=%s",
		req.BookingID, req.ExpectedVersion, req.NewDepartureDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ExtendBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем койко-место для блокировки
	current, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, uc.mapReadError(req.BookingID, err)
	}

	release, err := uc.locker.Acquire(ctx, lock.BedspaceKey(current.BedspaceID))
	if err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			uc.logger.Warn("ExtendBooking: bedspace id=%d is locked: %v", current.BedspaceID, err)
			return nil, fmt.Errorf("%w: %v", ErrStaleVersion, err)
		}
		uc.logger.Error("ExtendBooking: failed to lock bedspace id=%d: %v", current.BedspaceID, err)
		return nil, fmt.Errorf("%w: failed to lock bedspace: %v", ErrInternal, err)
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			uc.logger.Warn("ExtendBooking: failed to release lock for bedspace id=%d: %v", current.BedspaceID, err)
		}
	}()

	now := uc.timeProvider.Now()
	var (
		result   *domain.Booking
		previous domain.DateRange
	)

	// 3. Проверка и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Перечитываем бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return uc.mapReadError(req.BookingID, err)
		}

		if req.ExpectedVersion != 0 && booking.Version != req.ExpectedVersion {
			uc.logger.Warn("ExtendBooking: booking id=%d is at version %d, client has %d",
				booking.ID, booking.Version, req.ExpectedVersion)
			return fmt.Errorf("%w: booking %d is at version %d", ErrStaleVersion, booking.ID, booking.Version)
		}

		// 3.2. Проверяем, что статус допускает изменение дат
		status := uc.deriver.Derive(booking, now)
		if err := bookingstatus.CheckTransition(status, bookingstatus.ActionChangeDates); err != nil {
			uc.logger.Warn("ExtendBooking: booking id=%d: %v", booking.ID, err)
			return err
		}

		previous = booking.Range()
		newArrival := booking.ArrivalDate
		if req.NewArrivalDate != nil && !req.NewArrivalDate.Equal(booking.ArrivalDate) {
			if booking.HasArrived() {
				return ErrArrivalLocked
			}
			newArrival = *req.NewArrivalDate
		}
		if req.NewDepartureDate.Before(newArrival) {
			return fmt.Errorf("%w: departure date %s is before arrival date %s", ErrInvalidInput,
				req.NewDepartureDate.Format(domain.DateFormat), newArrival.Format(domain.DateFormat))
		}

		// 3.3. Проверяем койко-место
		bedspace, err := uc.bedspaceRepo.GetByID(txCtx, booking.BedspaceID)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to get bedspace id=%d: %v", booking.BedspaceID, err)
			return fmt.Errorf("%w: failed to get bedspace: %v", ErrInternal, err)
		}
		if !bedspace.IsOnlineFrom(newArrival) {
			return ErrArrivalBeforeBedspaceStart
		}

		// 3.4. Проверяем пересечения без собственного интервала
		candidate := domain.DateRange{
			Start: newArrival,
			End:   uc.scheduler.EndDate(req.NewDepartureDate, booking.TurnaroundWorkingDays()),
		}

		bookings, err := uc.bookingRepo.ListActiveByBedspaces(txCtx, []int64{bedspace.ID}, candidate, uc.lookbackDays)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to list bookings: %v", err)
			return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}

		voids, err := uc.voidRepo.ListActiveByBedspaces(txCtx, []int64{bedspace.ID}, candidate)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to list voids: %v", err)
			return fmt.Errorf("%w: failed to list voids: %v", ErrInternal, err)
		}

		self := domain.IntervalRef{Kind: domain.IntervalBooking, ID: booking.ID}
		check := uc.detector.Check(bedspace, candidate, conflict.Collect(bookings, voids, uc.scheduler), &self)
		if check.HasConflict() {
			if check.IsArchived() {
				uc.metrics.IncConflict("archived")
			} else {
				uc.metrics.IncConflict("overlap")
			}
			uc.logger.Warn("ExtendBooking: candidate %s for booking id=%d rejected: %v", candidate, booking.ID, check.Err())
			return check.Err()
		}

		// 3.5. Записываем изменение и обновляем кэш статуса
		extension := &domain.Extension{
			RecordMeta:            domain.RecordMeta{BookingID: booking.ID},
			PreviousArrivalDate:   previous.Start,
			NewArrivalDate:        newArrival,
			PreviousDepartureDate: previous.End,
			NewDepartureDate:      req.NewDepartureDate,
			Notes:                 req.Notes,
		}
		if err := uc.bookingRepo.AddExtension(txCtx, extension); err != nil {
			return uc.mapWriteError("add extension", err)
		}
		booking.Extensions = append(booking.Extensions, *extension)

		booking.ArrivalDate = newArrival
		booking.DepartureDate = req.NewDepartureDate
		uc.deriver.Refresh(booking, now)

		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			return uc.mapWriteError("update booking", err)
		}

		result = booking
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("ExtendBooking: serialization failure for booking id=%d: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: %v", ErrStaleVersion, err)
		}
		return nil, err
	}

	uc.logger.Info("ExtendBooking: booking id=%d moved from %s to %s", result.ID, previous, result.Range())

	// 4. Событие после фиксации транзакции
	if err := uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingDatesChanged, result, now)); err != nil {
		uc.logger.Error("ExtendBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:                    result.ID,
		BedspaceID:            result.BedspaceID,
		ArrivalDate:           result.ArrivalDate,
		DepartureDate:         result.DepartureDate,
		PreviousArrivalDate:   previous.Start,
		PreviousDepartureDate: previous.End,
		Status:                string(result.Status),
		Version:               result.Version,
		EffectiveEndDate:      uc.scheduler.EffectiveEndDate(result),
	}, nil
}

func (uc *UseCase) mapReadError(id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		uc.logger.Warn("ExtendBooking: booking id=%d not found", id)
		return ErrBookingNotFound
	}
	uc.logger.Error("ExtendBooking: failed to get booking id=%d: %v", id, err)
	return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
}

func (uc *UseCase) mapWriteError(op string, err error) error {
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		uc.logger.Warn("ExtendBooking: %s lost a race: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrStaleVersion, op, err)
	}
	uc.logger.Error("ExtendBooking: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}
