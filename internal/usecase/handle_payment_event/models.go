package handle_payment_event

// Результат обработки события
const (
	ResultProcessed = "processed"
	ResultDuplicate = "duplicate"
	ResultIgnored   = "ignored"
)

// Request проверенное событие платежного провайдера
type Request struct {
	EventID   string
	EventType string
	SessionID string
	BookingID int64
	Paid      bool
}

// Response результат обработки
type Response struct {
	Result    string
	BookingID int64
}
