package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/bookingstatus"
	"github.com/m04kA/SMC-AccommodationService/internal/conflict"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/infra/lock"
	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AccommodationService/internal/turnaround"
	"github.com/m04kA/SMC-AccommodationService/pkg/txmanager"
)

// Service сервис для работы с журналом событий бронирования
type Service struct {
	bookingRepo  BookingRepository
	bedspaceRepo BedspaceRepository
	voidRepo     VoidRepository
	locker       Locker
	publisher    EventPublisher
	txManager    TransactionManager
	scheduler    *turnaround.Scheduler
	detector     *conflict.Detector
	deriver      *bookingstatus.Deriver
	lookbackDays int
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	bedspaceRepo BedspaceRepository,
	voidRepo VoidRepository,
	locker Locker,
	publisher EventPublisher,
	txManager TransactionManager,
	scheduler *turnaround.Scheduler,
	lookbackDays int,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		bedspaceRepo: bedspaceRepo,
		voidRepo:     voidRepo,
		locker:       locker,
		publisher:    publisher,
		txManager:    txManager,
		scheduler:    scheduler,
		detector:     conflict.NewDetector(),
		deriver:      bookingstatus.NewDeriver(scheduler),
		lookbackDays: lookbackDays,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Статус всегда вычисляется заново по журналу, сохраненный кэш не используется
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	var booking *domain.Booking
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.bookingRepo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.deriver.Refresh(booking, s.timeProvider.Now())

	s.logger.Info("GetByID: successfully fetched booking id=%d, status=%s", id, booking.Status)
	return models.FromDomainBooking(booking, s.scheduler.EffectiveEndDate(booking)), nil
}

// mutation описывает одно изменение журнала бронирования
type mutation struct {
	op              string
	bookingID       int64
	expectedVersion int64
	action          bookingstatus.Action
	event           domain.EventType

	// apply записывает событие и меняет booking в памяти; вызывается внутри транзакции
	apply func(ctx context.Context, booking *domain.Booking, now time.Time) error
}

// mutate выполняет изменение под блокировкой койко-места в сериализуемой транзакции:
// проверка версии, проверка перехода по вычисленному статусу, запись события,
// пересчет кэша статуса и запись строки с проверкой версии.
// Событие публикуется только после фиксации.
func (s *Service) mutate(ctx context.Context, m mutation) (*models.BookingResponse, error) {
	// 1. Определяем койко-место для блокировки
	current, err := s.bookingRepo.GetByID(ctx, m.bookingID)
	if err != nil {
		return nil, s.mapError(m.op, m.bookingID, err)
	}

	release, err := s.locker.Acquire(ctx, lock.BedspaceKey(current.BedspaceID))
	if err != nil {
		return nil, s.mapError(m.op, m.bookingID, err)
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			s.logger.Warn("%s: failed to release lock for bedspace id=%d: %v", m.op, current.BedspaceID, err)
		}
	}()

	now := s.timeProvider.Now()
	var result *domain.Booking

	// 2. Изменение в транзакции
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, m.bookingID)
		if err != nil {
			return err
		}

		if m.expectedVersion != 0 && booking.Version != m.expectedVersion {
			return fmt.Errorf("%w: booking %d is at version %d, expected %d",
				ErrConcurrentUpdate, booking.ID, booking.Version, m.expectedVersion)
		}

		status := s.deriver.Derive(booking, now)
		if err := bookingstatus.CheckTransition(status, m.action); err != nil {
			return err
		}

		if err := m.apply(txCtx, booking, now); err != nil {
			return err
		}

		s.deriver.Refresh(booking, now)
		if err := s.bookingRepo.Update(txCtx, booking); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, s.mapError(m.op, m.bookingID, err)
	}

	s.logger.Info("%s: booking id=%d is now %s (version %d)", m.op, result.ID, result.Status, result.Version)

	// 3. Событие после фиксации транзакции
	if err := s.publisher.Publish(ctx, domain.NewBookingEvent(m.event, result, now)); err != nil {
		s.logger.Error("%s: failed to publish event for booking id=%d: %v", m.op, result.ID, err)
	}

	return models.FromDomainBooking(result, s.scheduler.EffectiveEndDate(result)), nil
}

// ensureClear проверяет, что новый интервал блокировки бронирования не задевает соседей
func (s *Service) ensureClear(ctx context.Context, booking *domain.Booking, candidate domain.DateRange) error {
	bedspace, err := s.bedspaceRepo.GetByID(ctx, booking.BedspaceID)
	if err != nil {
		return fmt.Errorf("%w: failed to get bedspace id=%d: %v", ErrInternal, booking.BedspaceID, err)
	}

	if !bedspace.IsOnlineFrom(candidate.Start) {
		return fmt.Errorf("%w: arrival %s, bedspace id=%d starts %s", ErrArrivalBeforeBedspaceStart,
			candidate.Start.Format(domain.DateFormat), bedspace.ID, bedspace.StartDate.Format(domain.DateFormat))
	}

	bookings, err := s.bookingRepo.ListActiveByBedspaces(ctx, []int64{bedspace.ID}, candidate, s.lookbackDays)
	if err != nil {
		return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	voids, err := s.voidRepo.ListActiveByBedspaces(ctx, []int64{bedspace.ID}, candidate)
	if err != nil {
		return fmt.Errorf("%w: failed to list voids: %v", ErrInternal, err)
	}

	self := domain.IntervalRef{Kind: domain.IntervalBooking, ID: booking.ID}
	return s.detector.Check(bedspace, candidate, conflict.Collect(bookings, voids, s.scheduler), &self).Err()
}

// mapError переводит ошибки слоев ниже в ошибки сервиса с логированием
func (s *Service) mapError(op string, bookingID int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		s.logger.Warn("%s: booking id=%d: %v", op, bookingID, err)
		return err
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		return ErrBookingNotFound
	case errors.Is(err, domain.ErrValidation):
		s.logger.Warn("%s: booking id=%d: %v", op, bookingID, err)
		return err
	case errors.Is(err, domain.ErrConcurrencyConflict), errors.Is(err, txmanager.ErrSerializationFailure):
		s.logger.Warn("%s: booking id=%d: concurrent update: %v", op, bookingID, err)
		if errors.Is(err, ErrConcurrentUpdate) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: booking id=%d: %v", op, bookingID, err)
		return err
	default:
		s.logger.Error("%s: booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
	}
}
