package payment_webhook

import (
	"context"

	"github.com/m04kA/SMC-BikeRepairService/internal/integrations/payments"
	handlePaymentEvent "github.com/m04kA/SMC-BikeRepairService/internal/usecase/handle_payment_event"
)

// EventParser проверяет подпись и разбирает событие провайдера
type EventParser interface {
	ParseWebhookEvent(payload []byte, signature string) (*payments.Event, error)
}

type HandlePaymentEventUseCase interface {
	Execute(ctx context.Context, req *handlePaymentEvent.Request) (*handlePaymentEvent.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
