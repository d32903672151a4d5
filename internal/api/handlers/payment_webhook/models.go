package payment_webhook

import (
	"github.com/m04kA/SMC-BikeRepairService/internal/integrations/payments"
	handlePaymentEvent "github.com/m04kA/SMC-BikeRepairService/internal/usecase/handle_payment_event"
)

// WebhookResponse HTTP response model
type WebhookResponse struct {
	Result    string `json:"result"`
	BookingID int64  `json:"bookingId,omitempty"`
}

func toUseCaseRequest(e *payments.Event) *handlePaymentEvent.Request {
	return &handlePaymentEvent.Request{
		EventID:   e.ID,
		EventType: e.Type,
		SessionID: e.SessionID,
		BookingID: e.BookingID,
		Paid:      e.Paid,
	}
}
