package premises

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/service/premises/models"
)

// Service сервис для работы с настройками помещений
type Service struct {
	premisesRepo      PremisesRepository
	defaultTurnaround int
	logger            Logger
}

// NewService создает новый экземпляр сервиса помещений
func NewService(premisesRepo PremisesRepository, defaultTurnaround int, logger Logger) *Service {
	return &Service{
		premisesRepo:      premisesRepo,
		defaultTurnaround: defaultTurnaround,
		logger:            logger,
	}
}

// GetByID получает настройки помещения
func (s *Service) GetByID(ctx context.Context, id int64) (*models.PremisesResponse, error) {
	s.logger.Info("GetByID: fetching premises id=%d", id)

	p, err := s.premisesRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: premises id=%d not found", id)
			return nil, ErrPremisesNotFound
		}
		s.logger.Error("GetByID: repository error for premises id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPremises(p, s.defaultTurnaround), nil
}

// UpdateTurnaround изменяет turnaround по умолчанию для новых бронирований помещения
// Существующие бронирования сохраняют свои записи turnaround
func (s *Service) UpdateTurnaround(ctx context.Context, id int64, req *models.UpdateTurnaroundRequest) (*models.PremisesResponse, error) {
	s.logger.Info("UpdateTurnaround: premises id=%d, workingDays=%v", id, req.TurnaroundWorkingDays)

	if req.TurnaroundWorkingDays != nil {
		n := *req.TurnaroundWorkingDays
		if n < domain.MinTurnaroundWorkingDays || n > domain.MaxTurnaroundWorkingDays {
			s.logger.Warn("UpdateTurnaround: invalid value %d", n)
			return nil, fmt.Errorf("%w: turnaround must be between %d and %d working days", ErrInvalidInput,
				domain.MinTurnaroundWorkingDays, domain.MaxTurnaroundWorkingDays)
		}
	}

	p, err := s.premisesRepo.UpdateTurnaround(ctx, id, req.TurnaroundWorkingDays)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("UpdateTurnaround: premises id=%d not found", id)
			return nil, ErrPremisesNotFound
		}
		s.logger.Error("UpdateTurnaround: repository error for premises id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateTurnaround - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateTurnaround: successfully updated premises id=%d", id)
	return models.FromDomainPremises(p, s.defaultTurnaround), nil
}
