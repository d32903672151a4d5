package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	"github.com/m04kA/SMC-BikeRepairService/internal/integrations/payments"
	"github.com/m04kA/SMC-BikeRepairService/internal/usecase/assign_mechanic"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	AttachCheckout(ctx context.Context, id int64, sessionID, checkoutURL string) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetActiveByIDs(ctx context.Context, ids []int64) ([]domain.RepairService, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	UpsertByPhone(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	CountBikes(ctx context.Context, customerID int64) (int, error)
	CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
}

// MechanicAssigner выбирает свободного механика на половину дня
type MechanicAssigner interface {
	Execute(ctx context.Context, req *assign_mechanic.Request) (*assign_mechanic.Response, error)
}

// PaymentClient интерфейс клиента платежного провайдера
type PaymentClient interface {
	CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	IncBookingCreated(slot string)
	IncAssignmentRetry()
	IncNoAvailability(slot string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
