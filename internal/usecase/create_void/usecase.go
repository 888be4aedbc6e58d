package create_void

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/conflict"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/infra/lock"
	"github.com/m04kA/SMC-AccommodationService/pkg/txmanager"
)

// UseCase use case для создания периода простоя койко-места
type UseCase struct {
	bookingRepo  BookingRepository
	bedspaceRepo BedspaceRepository
	voidRepo     VoidRepository
	locker       Locker
	publisher    EventPublisher
	txManager    TransactionManager
	ends         EndDater
	detector     *conflict.Detector
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
	txManager TransactionManager,
	ends EndDater,
	lookbackDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		bedspaceRepo: bedspaceRepo,
		voidRepo:     voidRepo,
		locker:       locker,
		publisher:    publisher,
		txManager:    txManager,
		ends:         ends,
		detector:     conflict.NewDetector(),
		lookbackDays: lookbackDays,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания периода простоя
// Простой не может пересекаться с активными бронированиями (с учетом turnaround) и другими простоями
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateVoid: bedspace=%d, start=%s, end=%s",
		req.BedspaceID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateVoid: validation failed: %v", err)
		return nil, err
	}

	// 2. Блокировка койко-места
	release, err := uc.locker.Acquire(ctx, lock.BedspaceKey(req.BedspaceID))
	if err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, fmt.Errorf("%w: %v", ErrConcurrentWrite, err)
		}
		uc.logger.Error("CreateVoid: failed to lock bedspace id=%d: %v", req.BedspaceID, err)
		return nil, fmt.Errorf("%w: failed to lock bedspace: %v", ErrInternal, err)
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			uc.logger.Warn("CreateVoid: failed to release lock for bedspace id=%d: %v", req.BedspaceID, err)
		}
	}()

	var result *domain.VoidPeriod

	// 3. Проверка и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		bedspace, err := uc.bedspaceRepo.GetByID(txCtx, req.BedspaceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ErrBedspaceNotFound
			}
			uc.logger.Error("CreateVoid: failed to get bedspace id=%d: %v", req.BedspaceID, err)
			return fmt.Errorf("%w: failed to get bedspace: %v", ErrInternal, err)
		}

		candidate := domain.DateRange{Start: req.StartDate, End: req.EndDate}

		bookings, err := uc.bookingRepo.ListActiveByBedspaces(txCtx, []int64{bedspace.ID}, candidate, uc.lookbackDays)
		if err != nil {
			uc.logger.Error("CreateVoid: failed to list bookings: %v", err)
			return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}

		voids, err := uc.voidRepo.ListActiveByBedspaces(txCtx, []int64{bedspace.ID}, candidate)
		if err != nil {
			uc.logger.Error("CreateVoid: failed to list voids: %v", err)
			return fmt.Errorf("%w: failed to list voids: %v", ErrInternal, err)
		}

		check := uc.detector.Check(bedspace, candidate, conflict.Collect(bookings, voids, uc.ends), nil)
		if check.HasConflict() {
			uc.logger.Warn("CreateVoid: candidate %s on bedspace id=%d rejected: %v", candidate, bedspace.ID, check.Err())
			return check.Err()
		}

		created, err := uc.voidRepo.Create(txCtx, &domain.VoidPeriod{
			BedspaceID: bedspace.ID,
			PremisesID: bedspace.PremisesID,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			Reason:     req.Reason,
			Notes:      req.Notes,
		})
		if err != nil {
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				return fmt.Errorf("%w: %v", ErrConcurrentWrite, err)
			}
			uc.logger.Error("CreateVoid: failed to create void: %v", err)
			return fmt.Errorf("%w: failed to create void: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			return nil, fmt.Errorf("%w: %v", ErrConcurrentWrite, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateVoid: created void id=%d on bedspace id=%d", result.ID, result.BedspaceID)

	// 4. Событие после фиксации транзакции
	if err := uc.publisher.Publish(ctx, domain.NewVoidEvent(domain.EventVoidCreated, result, uc.timeProvider.Now())); err != nil {
		uc.logger.Error("CreateVoid: failed to publish event for void id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:         result.ID,
		BedspaceID: result.BedspaceID,
		PremisesID: result.PremisesID,
		StartDate:  result.StartDate,
		EndDate:    result.EndDate,
		Reason:     result.Reason,
		Notes:      result.Notes,
		CreatedAt:  result.CreatedAt,
	}, nil
}
