package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BikeRepairService/internal/service/bookings"
	"github.com/m04kA/SMC-BikeRepairService/internal/service/bookings/models"
	"github.com/m04kA/SMC-BikeRepairService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResponse), args.Error(1)
}

func serve(svc *mockService, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/bookings/{bookingId}", NewHandler(svc, logger.Nop()).Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("GetByID", mock.Anything, int64(42)).
		Return(&models.BookingResponse{ID: 42, Date: "2025-10-15", Slot: "morning", Status: "confirmed"}, nil)

	rec := serve(svc, "/api/v1/admin/bookings/42")

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.ID)
	assert.Equal(t, "confirmed", body.Status)
}

func TestHandle_Errors(t *testing.T) {
	svc := &mockService{}
	svc.On("GetByID", mock.Anything, int64(404)).Return(nil, bookings.ErrBookingNotFound)
	svc.On("GetByID", mock.Anything, int64(500)).Return(nil, bookings.ErrInternal)

	assert.Equal(t, http.StatusBadRequest, serve(svc, "/api/v1/admin/bookings/abc").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/api/v1/admin/bookings/0").Code)
	assert.Equal(t, http.StatusNotFound, serve(svc, "/api/v1/admin/bookings/404").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(svc, "/api/v1/admin/bookings/500").Code)
}
