package voids

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/service/voids/models"
)

// Service сервис для работы с периодами простоя
type Service struct {
	voidRepo     VoidRepository
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса периодов простоя
func NewService(voidRepo VoidRepository, publisher EventPublisher, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		voidRepo:     voidRepo,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает период простоя по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.VoidResponse, error) {
	s.logger.Info("GetByID: fetching void id=%d", id)

	v, err := s.voidRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("GetByID", id, err)
	}

	return models.FromDomainVoid(v), nil
}

// Cancel отменяет период простоя: он перестает блокировать койко-место
// Повторная отмена - ошибка валидации
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelVoidRequest) (*models.VoidResponse, error) {
	s.logger.Info("Cancel: cancelling void id=%d", id)

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	var result *domain.VoidPeriod
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		v, err := s.voidRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		cancellation := &domain.VoidCancellation{VoidID: v.ID, Notes: req.Notes}
		if err := s.voidRepo.AddCancellation(txCtx, cancellation); err != nil {
			return err
		}

		v.Cancellation = cancellation
		result = v
		return nil
	})
	if err != nil {
		return nil, s.mapError("Cancel", id, err)
	}

	s.logger.Info("Cancel: successfully cancelled void id=%d", id)

	if err := s.publisher.Publish(ctx, domain.NewVoidEvent(domain.EventVoidCancelled, result, s.timeProvider.Now())); err != nil {
		s.logger.Error("Cancel: failed to publish event for void id=%d: %v", id, err)
	}

	return models.FromDomainVoid(result), nil
}

func (s *Service) mapError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Warn("%s: void id=%d not found", op, id)
		return ErrVoidNotFound
	case errors.Is(err, domain.ErrValidation):
		s.logger.Warn("%s: void id=%d: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: repository error for void id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
