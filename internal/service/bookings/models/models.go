package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Параметры пагинации списка
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Request модели

// ListBookingsRequest фильтр списка бронирований back-office
type ListBookingsRequest struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	Status     *string
	MechanicID *int64
	Limit      uint64
	Offset     uint64
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		DateFrom:   r.DateFrom,
		DateTo:     r.DateTo,
		MechanicID: r.MechanicID,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}

	if filter.Limit == 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	CustomerID    int64   `json:"customerId"`
	BikeID        int64   `json:"bikeId"`
	MechanicID    *int64  `json:"mechanicId,omitempty"`
	Date          string  `json:"date"` // "2025-10-15"
	Slot          string  `json:"slot"`
	Status        string  `json:"status"`
	BikeType      string  `json:"bikeType"`
	ServiceIDs    []int64 `json:"serviceIds"`
	TotalOre      int64   `json:"totalOre"`
	Currency      string  `json:"currency"`
	Locale        string  `json:"locale"`
	Address       string  `json:"address"`
	Notes         *string `json:"notes,omitempty"`
	PaymentStatus string  `json:"paymentStatus"`

	CheckoutSessionID *string `json:"checkoutSessionId,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Limit    uint64            `json:"limit"`
	Offset   uint64            `json:"offset"`
}

// DashboardResponse счетчики back-office
type DashboardResponse struct {
	Date             string `json:"date"`
	TotalBookings    int64  `json:"totalBookings"`
	UpcomingBookings int64  `json:"upcomingBookings"`
	PendingPayment   int64  `json:"pendingPayment"`
	Cancelled        int64  `json:"cancelled"`
	RevenueOre       int64  `json:"revenueOre"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	serviceIDs := b.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		BikeID:             b.BikeID,
		MechanicID:         b.MechanicID,
		Date:               b.RequestedDate.Format(domain.DateFormat),
		Slot:               string(b.Slot),
		Status:             string(b.Status),
		BikeType:           string(b.BikeType),
		ServiceIDs:         serviceIDs,
		TotalOre:           b.TotalOre,
		Currency:           b.Currency,
		Locale:             string(b.Locale),
		Address:            b.Address,
		Notes:              b.Notes,
		PaymentStatus:      string(b.PaymentStatus),
		CheckoutSessionID:  b.CheckoutSessionID,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, limit, offset uint64) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Limit:    limit,
		Offset:   offset,
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}

// FromDomainStats конвертирует счетчики в DTO
func FromDomainStats(today time.Time, s *domain.DashboardStats) *DashboardResponse {
	return &DashboardResponse{
		Date:             today.Format(domain.DateFormat),
		TotalBookings:    s.TotalBookings,
		UpcomingBookings: s.UpcomingBookings,
		PendingPayment:   s.PendingPayment,
		Cancelled:        s.Cancelled,
		RevenueOre:       s.RevenueOre,
	}
}

// ToDomainBookingStatus конвертирует строку в статус бронирования
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.IsValidBookingStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
