package payments

import (
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// Типы событий провайдера, которые обрабатывает сервис
const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventCheckoutExpired       = "checkout.session.expired"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	EventAsyncPaymentFailed    = "checkout.session.async_payment_failed"
)

// metadataBookingID ключ метаданных сессии с ID бронирования
const metadataBookingID = "booking_id"

// Config настройки клиента платежей
type Config struct {
	SecretKey        string
	WebhookSecret    string
	WebhookTolerance time.Duration
	SuccessURL       string
	CancelURL        string
	SessionTTL       time.Duration // 0 - срок жизни по умолчанию у провайдера

	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerFailures    uint32
}

// CheckoutRequest параметры платежной сессии для бронирования
type CheckoutRequest struct {
	BookingID     int64
	AmountOre     int64
	Currency      string
	Locale        domain.Locale
	Description   string
	CustomerEmail *string
}

// CheckoutSession созданная платежная сессия
type CheckoutSession struct {
	ID  string
	URL string
}

// Event проверенное событие вебхука
type Event struct {
	ID        string
	Type      string
	SessionID string
	BookingID int64 // 0 - событие не относится к бронированию
	Paid      bool
}
