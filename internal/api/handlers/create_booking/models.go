package create_booking

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	createBooking "github.com/m04kA/SMC-BikeRepairService/internal/usecase/create_booking"
)

var (
	errInvalidDate = errors.New("invalid date format")
	errInvalidSlot = errors.New("invalid slot")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date           string  `json:"date"` // "2025-10-15"
	Slot           string  `json:"slot"` // "morning" | "afternoon"
	BikeType       string  `json:"bikeType"`
	ServiceIDs     []int64 `json:"serviceIds"`
	QuotedTotalOre int64   `json:"quotedTotalOre"`
	Locale         string  `json:"locale"`
	CustomerName   string  `json:"customerName"`
	Phone          string  `json:"phone"`
	Email          *string `json:"email,omitempty"`
	Address        string  `json:"address"`
	Notes          *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	MechanicID    int64   `json:"mechanicId"`
	Date          string  `json:"date"`
	Slot          string  `json:"slot"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	TotalOre      int64   `json:"totalOre"`
	Currency      string  `json:"currency"`
	BikeNickname  string  `json:"bikeNickname"`
	CheckoutURL   *string `json:"checkoutUrl,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	// Дата без времени, локация применяется в use case
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	slot, err := domain.ParseSlot(r.Slot)
	if err != nil {
		return nil, errInvalidSlot
	}

	return &createBooking.Request{
		Date:           date,
		Slot:           slot,
		BikeType:       domain.BikeType(r.BikeType),
		ServiceIDs:     r.ServiceIDs,
		QuotedTotalOre: r.QuotedTotalOre,
		Locale:         domain.Locale(r.Locale),
		CustomerName:   r.CustomerName,
		Phone:          r.Phone,
		Email:          r.Email,
		Address:        r.Address,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		MechanicID:    resp.MechanicID,
		Date:          resp.Date.Format(domain.DateFormat),
		Slot:          string(resp.Slot),
		Status:        string(resp.Status),
		PaymentStatus: string(resp.PaymentStatus),
		TotalOre:      resp.TotalOre,
		Currency:      resp.Currency,
		BikeNickname:  resp.BikeNickname,
		CheckoutURL:   resp.CheckoutURL,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
