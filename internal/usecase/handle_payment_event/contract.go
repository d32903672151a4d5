package handle_payment_event

import (
	"context"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// PaymentEventRepository журнал обработанных событий провайдера
type PaymentEventRepository interface {
	InsertEvent(ctx context.Context, eventID, eventType string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, payment domain.PaymentStatus) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик событий оплаты
type Metrics interface {
	IncPaymentEvent(eventType, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
