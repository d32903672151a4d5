package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// Settings параметры бронирования из конфигурации
type Settings struct {
	MaxAdvanceDays  int // 0 - без ограничения
	AssignAttempts  int
	Currency        string
	PaymentsEnabled bool
	Location        *time.Location
}

// Request модель запроса на создание бронирования
type Request struct {
	Date           time.Time       // Дата выезда (без времени)
	Slot           domain.Slot     // Половина дня
	BikeType       domain.BikeType // Тип велосипеда
	ServiceIDs     []int64         // Выбранные услуги
	QuotedTotalOre int64           // Сумма, показанная клиенту, в эре
	Locale         domain.Locale

	CustomerName string
	Phone        string
	Email        *string
	Address      string
	Notes        *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	MechanicID    int64
	Date          time.Time
	Slot          domain.Slot
	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus
	TotalOre      int64
	Currency      string
	BikeNickname  string
	CheckoutURL   *string // nil, если оплата отключена
	CreatedAt     time.Time
}
