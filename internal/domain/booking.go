package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus статус оплаты бронирования
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
	PaymentExpired PaymentStatus = "expired"
)

// Booking бронирование выезда механика на половину дня
type Booking struct {
	ID            int64
	CustomerID    int64
	BikeID        int64
	MechanicID    *int64 // NULL - механик не назначен
	RequestedDate time.Time
	Slot          Slot
	Status        BookingStatus

	BikeType   BikeType
	ServiceIDs []int64
	TotalOre   int64 // Сумма в эре (1/100 кроны)
	Currency   string
	Locale     Locale
	Address    string
	Notes      *string

	PaymentStatus     PaymentStatus
	CheckoutSessionID *string
	CheckoutURL       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// ConsumesSlot returns true if the booking occupies its mechanic's half-day.
// Любой статус кроме cancelled занимает слот, бронирования без механика не учитываются
func (b *Booking) ConsumesSlot() bool {
	return b.Status != StatusCancelled && b.MechanicID != nil
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsAwaitingPayment returns true if the checkout is still open
func (b *Booking) IsAwaitingPayment() bool {
	return b.Status == StatusPending && b.PaymentStatus == PaymentUnpaid
}

// HalfDay возвращает занимаемую половину дня
func (b *Booking) HalfDay() HalfDaySlot {
	return HalfDaySlot{Date: b.RequestedDate, Slot: b.Slot}
}

// BookingsFilter фильтр списка бронирований для back-office
type BookingsFilter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	Status     *BookingStatus
	MechanicID *int64
	Limit      uint64
	Offset     uint64
}

// DashboardStats агрегированные счетчики для back-office
type DashboardStats struct {
	TotalBookings    int64
	UpcomingBookings int64
	PendingPayment   int64
	Cancelled        int64
	RevenueOre       int64
}

// IsValidBookingStatus проверяет, что статус известен
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
