package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/internal/testutil"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
)

func TestService(t *testing.T) {
	repo := &testutil.Catalog{
		Services: []*domain.Service{
			{ID: 1, TenantID: 1, Name: "Cut", DurationMinutes: 45, Price: decimal.RequireFromString("25.50")},
			{ID: 2, TenantID: 2, Name: "Other tenant"},
		},
		Resources: []*domain.Resource{
			{ID: 5, TenantID: 1, Name: "Maria"},
			{ID: 3, TenantID: 1, Name: "Olga"},
		},
	}
	svc := NewService(repo, logger.NewNop())

	services, err := svc.GetServices(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, services.Services, 1)
	assert.Equal(t, "Cut", services.Services[0].Name)
	assert.Equal(t, "25.5", services.Services[0].Price.String())

	resources, err := svc.GetResources(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 2)
	assert.Equal(t, int64(3), resources.Resources[0].ID)

	empty, err := svc.GetResources(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, empty.Resources)
	assert.Empty(t, empty.Resources)
}

func TestService_StoreFailure(t *testing.T) {
	svc := NewService(&testutil.Catalog{Err: testutil.ErrStore}, logger.NewNop())

	_, err := svc.GetServices(context.Background(), 1)
	require.ErrorIs(t, err, ErrInternal)
	_, err = svc.GetResources(context.Background(), 1)
	require.ErrorIs(t, err, ErrInternal)
}
