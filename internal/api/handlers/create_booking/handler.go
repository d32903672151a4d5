package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BikeRepairService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-BikeRepairService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid booking date format, expected YYYY-MM-DD"
	msgInvalidSlot        = "invalid slot, expected 'morning' or 'afternoon'"
	msgInvalidInput       = "invalid booking data"
	msgDateInPast         = "booking date is in the past"
	msgDateTooFar         = "booking date is too far in the future"
	msgServiceNotFound    = "one or more services are not available"
	msgPriceMismatch      = "prices have changed, please review your booking"
	msgSlotNotAvailable   = "the selected half-day is no longer available"
	msgPaymentFailed      = "could not start the payment, please try again"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: date=%q, slot=%q, error=%v", req.Date, req.Slot, err)
		if errors.Is(err, errInvalidSlot) {
			handlers.RespondBadRequest(w, msgInvalidSlot)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Date in the past: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: services=%v", req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrPriceMismatch):
			h.logger.Warn("POST /bookings - Price mismatch: %v", err)
			handlers.RespondConflict(w, msgPriceMismatch)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: date=%s, slot=%s", req.Date, req.Slot)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrPayment):
			h.logger.Error("POST /bookings - Payment provider failed: date=%s, slot=%s, error=%v", req.Date, req.Slot, err)
			handlers.RespondBadGateway(w, msgPaymentFailed)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: date=%s, slot=%s, error=%v", req.Date, req.Slot, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, mechanic_id=%d, date=%s, slot=%s",
		result.ID, result.MechanicID, req.Date, req.Slot)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
