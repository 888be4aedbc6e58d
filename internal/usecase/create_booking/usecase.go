package create_booking

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

const (
	conflictKindArchived = "archived"
	conflictKindOverlap  = "overlap"
)

// Settings параметры бронирования из конфигурации сервиса
type Settings struct {
	DefaultTurnaroundWorkingDays int
	LookbackDays                 int
}

// UseCase use case для создания бронирования
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
	settings     Settings
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
	settings Settings,
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
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений и запись выполняются под блокировкой койко-места в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: crn=%s, bedspace=%d, arrival=%s, departure=%s",
		req.CRN, req.BedspaceID, req.ArrivalDate.Format(domain.DateFormat), req.DepartureDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Блокировка койко-места на время проверки и записи
	release, err := uc.locker.Acquire(ctx, lock.BedspaceKey(req.BedspaceID))
	if err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			uc.logger.Warn("CreateBooking: bedspace id=%d is locked: %v", req.BedspaceID, err)
			return nil, fmt.Errorf("%w: %v", ErrConcurrentBooking, err)
		}
		uc.logger.Error("CreateBooking: failed to lock bedspace id=%d: %v", req.BedspaceID, err)
		return nil, fmt.Errorf("%w: failed to lock bedspace: %v", ErrInternal, err)
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			uc.logger.Warn("CreateBooking: failed to release lock for bedspace id=%d: %v", req.BedspaceID, err)
		}
	}()

	now := uc.timeProvider.Now()
	var result *domain.Booking

	// 3. Проверка и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем койко-место с блокировкой строки
		bedspace, err := uc.bedspaceRepo.GetByID(txCtx, req.BedspaceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.logger.Warn("CreateBooking: bedspace id=%d not found", req.BedspaceID)
				return ErrBedspaceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get bedspace id=%d: %v", req.BedspaceID, err)
			return fmt.Errorf("%w: failed to get bedspace: %v", ErrInternal, err)
		}

		// 3.2. Заезд не раньше даты ввода койко-места
		if !bedspace.IsOnlineFrom(req.ArrivalDate) {
			uc.logger.Warn("CreateBooking: arrival %s is before bedspace id=%d start %s",
				req.ArrivalDate.Format(domain.DateFormat), bedspace.ID, bedspace.StartDate.Format(domain.DateFormat))
			return ErrArrivalBeforeBedspaceStart
		}

		// 3.3. Кандидат блокирует койко-место до конца своего turnaround
		turnaroundDays := resolveTurnaround(req, bedspace, uc.settings.DefaultTurnaroundWorkingDays)
		candidate := domain.DateRange{
			Start: req.ArrivalDate,
			End:   uc.scheduler.EndDate(req.DepartureDate, turnaroundDays),
		}

		// 3.4. Загружаем активные интервалы койко-места
		bookings, err := uc.bookingRepo.ListActiveByBedspaces(txCtx, []int64{bedspace.ID}, candidate, uc.settings.LookbackDays)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list bookings: %v", err)
			return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}

		voids, err := uc.voidRepo.ListActiveByBedspaces(txCtx, []int64{bedspace.ID}, candidate)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list voids: %v", err)
			return fmt.Errorf("%w: failed to list voids: %v", ErrInternal, err)
		}

		// 3.5. Проверяем пересечения и архивацию
		check := uc.detector.Check(bedspace, candidate, conflict.Collect(bookings, voids, uc.scheduler), nil)
		if check.HasConflict() {
			uc.recordConflict(check)
			uc.logger.Warn("CreateBooking: candidate %s on bedspace id=%d rejected: %v", candidate, bedspace.ID, check.Err())
			return check.Err()
		}

		// 3.6. Создаем бронирование и начальный turnaround
		booking := &domain.Booking{
			CRN:                   req.CRN,
			PremisesID:            bedspace.PremisesID,
			BedspaceID:            bedspace.ID,
			ArrivalDate:           req.ArrivalDate,
			DepartureDate:         req.DepartureDate,
			OriginalArrivalDate:   req.ArrivalDate,
			OriginalDepartureDate: req.DepartureDate,
		}
		uc.deriver.Refresh(booking, now)

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return uc.mapWriteError("create booking", err)
		}

		t := &domain.Turnaround{
			RecordMeta:      domain.RecordMeta{BookingID: created.ID},
			WorkingDayCount: turnaroundDays,
		}
		if err := uc.bookingRepo.AddTurnaround(txCtx, t); err != nil {
			return uc.mapWriteError("create turnaround", err)
		}
		created.Turnarounds = append(created.Turnarounds, *t)

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: serialization failure on bedspace id=%d: %v", req.BedspaceID, err)
			return nil, fmt.Errorf("%w: %v", ErrConcurrentBooking, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d on bedspace id=%d", result.ID, result.BedspaceID)

	// 4. Метрики и событие после фиксации транзакции
	uc.metrics.IncBookingsCreated()
	if err := uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingProvisionallyMade, result, now)); err != nil {
		uc.logger.Error("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return uc.toResponse(result), nil
}

func (uc *UseCase) recordConflict(check conflict.Result) {
	if check.IsArchived() {
		uc.metrics.IncConflict(conflictKindArchived)
		return
	}
	uc.metrics.IncConflict(conflictKindOverlap)
}

// mapWriteError отделяет проигранную гонку от прочих ошибок записи
func (uc *UseCase) mapWriteError(op string, err error) error {
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		uc.logger.Warn("CreateBooking: %s lost a race: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrConcurrentBooking, op, err)
	}
	uc.logger.Error("CreateBooking: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}

func (uc *UseCase) toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                    b.ID,
		CRN:                   b.CRN,
		PremisesID:            b.PremisesID,
		BedspaceID:            b.BedspaceID,
		ArrivalDate:           b.ArrivalDate,
		DepartureDate:         b.DepartureDate,
		Status:                string(b.Status),
		Version:               b.Version,
		TurnaroundWorkingDays: b.TurnaroundWorkingDays(),
		EffectiveEndDate:      uc.scheduler.EffectiveEndDate(b),
		CreatedAt:             b.CreatedAt,
	}
}
