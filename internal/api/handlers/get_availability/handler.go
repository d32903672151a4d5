package get_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/api/handlers"
	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	getAvailability "github.com/m04kA/SMC-BikeRepairService/internal/usecase/get_availability"
)

const (
	msgInvalidFrom     = "invalid 'from' date, expected YYYY-MM-DD"
	msgInvalidTo       = "invalid 'to' date, expected YYYY-MM-DD"
	msgInvalidRange    = "'from' must not be after 'to'"
	msgRangeTooLong    = "requested date range is too long"
	msgDataUnavailable = "could not load availability, try again"
)

type Handler struct {
	useCase      GetAvailabilityUseCase
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(useCase GetAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:      useCase,
		location:     location,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// Handle GET /api/v1/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
// Без параметров возвращает календарь на DefaultCalendarDays дней начиная с сегодня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	today := domain.DateOnly(h.timeProvider.Now().In(h.location))

	from := today
	if v := query.Get("from"); v != "" {
		parsed, err := time.ParseInLocation(domain.DateFormat, v, h.location)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid from: %q", v)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		from = parsed
	}

	to := from.AddDate(0, 0, domain.DefaultCalendarDays-1)
	if v := query.Get("to"); v != "" {
		parsed, err := time.ParseInLocation(domain.DateFormat, v, h.location)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid to: %q", v)
			handlers.RespondBadRequest(w, msgInvalidTo)
			return
		}
		to = parsed
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{DateFrom: from, DateTo: to})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidRange):
			h.logger.Warn("GET /availability - Invalid range: from=%s, to=%s", domain.DateKey(from), domain.DateKey(to))
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getAvailability.ErrRangeTooLong):
			h.logger.Warn("GET /availability - Range too long: from=%s, to=%s", domain.DateKey(from), domain.DateKey(to))
			handlers.RespondBadRequest(w, msgRangeTooLong)

		default:
			h.logger.Error("GET /availability - Failed to compute availability: from=%s, to=%s, error=%v",
				domain.DateKey(from), domain.DateKey(to), err)
			handlers.RespondError(w, http.StatusInternalServerError, msgDataUnavailable)
		}
		return
	}

	h.logger.Info("GET /availability - Availability computed: from=%s, to=%s, days=%d",
		domain.DateKey(from), domain.DateKey(to), len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
