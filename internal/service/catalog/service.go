package catalog

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AgendaService/internal/service/catalog/models"
)

// Service справочные данные бизнеса (только чтение)
type Service struct {
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса справочников
func NewService(catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// GetServices получает активные услуги бизнеса
func (s *Service) GetServices(ctx context.Context, tenantID int64) (*models.ServiceListResponse, error) {
	services, err := s.catalogRepo.GetServices(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetServices: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetServices - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetServices: fetched %d services for tenant=%d", len(services), tenantID)
	return models.FromDomainServices(services), nil
}

// GetResources получает активные ресурсы бизнеса по возрастанию ID
func (s *Service) GetResources(ctx context.Context, tenantID int64) (*models.ResourceListResponse, error) {
	resources, err := s.catalogRepo.GetResources(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetResources: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetResources - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetResources: fetched %d resources for tenant=%d", len(resources), tenantID)
	return models.FromDomainResources(resources), nil
}
