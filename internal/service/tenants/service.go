package tenants

import (
	"context"
	"errors"
	"fmt"

	tenantRepo "github.com/m04kA/SMC-AgendaService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AgendaService/internal/service/tenants/models"
)

// Service сервис настроек бизнеса
type Service struct {
	tenantRepo TenantRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(tenantRepo TenantRepository, logger Logger) *Service {
	return &Service{
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// GetSettings получает настройки бизнеса
// Публичный метод - нужен форме записи
func (s *Service) GetSettings(ctx context.Context, tenantID int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for tenant=%d", tenantID)

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("GetSettings: tenant id=%d not found", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("GetSettings: repository error for tenant id=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTenant(tenant), nil
}

// UpdateOpeningHours заменяет недельные часы работы целиком
func (s *Service) UpdateOpeningHours(ctx context.Context, tenantID int64, req *models.UpdateOpeningHoursRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateOpeningHours: updating opening hours for tenant=%d", tenantID)

	// 1. Нормализуем и валидируем часы работы
	hours, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("UpdateOpeningHours: invalid opening hours: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := hours.Validate(); err != nil {
		s.logger.Warn("UpdateOpeningHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Сохраняем
	if err := s.tenantRepo.UpdateOpeningHours(ctx, tenantID, hours); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("UpdateOpeningHours: tenant id=%d not found", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("UpdateOpeningHours: repository error for tenant id=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: UpdateOpeningHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateOpeningHours: successfully updated opening hours for tenant=%d", tenantID)

	// 3. Возвращаем актуальные настройки
	return s.GetSettings(ctx, tenantID)
}
