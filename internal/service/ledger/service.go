package ledger

import (
	"context"
	"errors"
	"fmt"

	movementRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/movement"
	"github.com/m04kA/SMC-AgendaService/internal/service/ledger/models"
)

// Service сервис движений по счету
// Жизненный цикл движений не зависит от записей
type Service struct {
	movementRepo MovementRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(movementRepo MovementRepository, logger Logger) *Service {
	return &Service{
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// List получает движения тенанта с фильтрацией
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.MovementListResponse, error) {
	s.logger.Info("List: fetching movements for tenant=%d", req.TenantID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}

	movements, err := s.movementRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d movements for tenant=%d", len(movements), req.TenantID)
	return models.FromDomainMovements(movements), nil
}

// Delete удаляет движение; связанная запись не меняется
func (s *Service) Delete(ctx context.Context, tenantID, id int64) error {
	s.logger.Info("Delete: deleting movement id=%d of tenant=%d", id, tenantID)

	if err := s.movementRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, movementRepo.ErrMovementNotFound) {
			s.logger.Warn("Delete: movement id=%d not found", id)
			return ErrMovementNotFound
		}
		s.logger.Error("Delete: repository error for movement id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted movement id=%d", id)
	return nil
}
