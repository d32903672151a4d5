package payment_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-BikeRepairService/internal/api/handlers"
	"github.com/m04kA/SMC-BikeRepairService/internal/integrations/payments"
	handlePaymentEvent "github.com/m04kA/SMC-BikeRepairService/internal/usecase/handle_payment_event"
)

// Провайдер присылает подпись в этом заголовке
const signatureHeader = "Stripe-Signature"

// Стандартный лимит тела события у провайдера
const maxPayloadBytes = 65536

const (
	msgUnreadableBody = "could not read request body"
	msgNotConfigured  = "payment webhook is not configured"
	msgBadSignature   = "invalid signature"
	msgBadPayload     = "invalid event payload"
)

type Handler struct {
	parser  EventParser
	useCase HandlePaymentEventUseCase
	logger  Logger
}

func NewHandler(parser EventParser, useCase HandlePaymentEventUseCase, logger Logger) *Handler {
	return &Handler{
		parser:  parser,
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/webhook
// Ответ не 2xx заставляет провайдера повторить доставку события
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /payments/webhook - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgUnreadableBody)
		return
	}

	event, err := h.parser.ParseWebhookEvent(payload, r.Header.Get(signatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrWebhookNotConfigured):
			h.logger.Error("POST /payments/webhook - Webhook secret is not configured")
			handlers.RespondServiceUnavailable(w, msgNotConfigured)

		case errors.Is(err, payments.ErrInvalidSignature):
			h.logger.Warn("POST /payments/webhook - Invalid signature: %v", err)
			handlers.RespondBadRequest(w, msgBadSignature)

		default:
			h.logger.Warn("POST /payments/webhook - Invalid payload: %v", err)
			handlers.RespondBadRequest(w, msgBadPayload)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), toUseCaseRequest(event))
	if err != nil {
		if errors.Is(err, handlePaymentEvent.ErrInvalidInput) {
			h.logger.Warn("POST /payments/webhook - Invalid event: event_id=%s, error=%v", event.ID, err)
			handlers.RespondBadRequest(w, msgBadPayload)
			return
		}
		h.logger.Error("POST /payments/webhook - Failed to handle event: event_id=%s, type=%s, error=%v",
			event.ID, event.Type, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /payments/webhook - Event handled: event_id=%s, type=%s, result=%s, booking_id=%d",
		event.ID, event.Type, result.Result, result.BookingID)
	handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Result: result.Result, BookingID: result.BookingID})
}
