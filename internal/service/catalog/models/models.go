package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// ServiceResponse услуга бизнеса
type ServiceResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// ResourceResponse ресурс бизнеса
type ResourceResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ResourceListResponse список ресурсов
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// FromDomainServices конвертирует список услуг в DTO
func FromDomainServices(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, ServiceResponse{
			ID:              s.ID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		})
	}
	return resp
}

// FromDomainResources конвертирует список ресурсов в DTO
func FromDomainResources(resources []*domain.Resource) *ResourceListResponse {
	resp := &ResourceListResponse{Resources: make([]ResourceResponse, 0, len(resources))}
	for _, r := range resources {
		resp.Resources = append(resp.Resources, ResourceResponse{ID: r.ID, Name: r.Name})
	}
	return resp
}
