package list_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BikeRepairService/internal/api/handlers"
	"github.com/m04kA/SMC-BikeRepairService/internal/service/bookings"
)

const (
	msgInvalidParam  = "invalid query parameter: "
	msgInvalidFilter = "invalid filter"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings?from=&to=&status=&mechanicId=&limit=&offset=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, bad := parseQuery(r.URL.Query())
	if bad != "" {
		h.logger.Warn("GET /admin/bookings - Invalid query parameter: %s", bad)
		handlers.RespondBadRequest(w, msgInvalidParam+bad)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /admin/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /admin/bookings - Failed to list bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/bookings - Bookings listed: count=%d", len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
