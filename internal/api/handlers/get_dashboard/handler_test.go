package get_dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-BikeRepairService/internal/service/bookings"
	"github.com/m04kA/SMC-BikeRepairService/internal/service/bookings/models"
	"github.com/m04kA/SMC-BikeRepairService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Dashboard(ctx context.Context) (*models.DashboardResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardResponse), args.Error(1)
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("Dashboard", mock.Anything).Return(&models.DashboardResponse{
		Date:             "2025-10-15",
		TotalBookings:    10,
		UpcomingBookings: 4,
		PendingPayment:   1,
		Cancelled:        2,
		RevenueOre:       120000,
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2025-10-15","totalBookings":10,"upcomingBookings":4,"pendingPayment":1,"cancelled":2,"revenueOre":120000}`,
		rec.Body.String())
}

func TestHandle_Error(t *testing.T) {
	svc := &mockService{}
	svc.On("Dashboard", mock.Anything).Return(nil, bookings.ErrInternal)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
