package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний механиков
type ScheduleRepository interface {
	// GetActiveSchedules возвращает недельные расписания только активных механиков
	GetActiveSchedules(ctx context.Context) ([]domain.MechanicSchedule, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetSlotOccupancy возвращает занятость механиков неотмененными бронированиями в диапазоне дат
	GetSlotOccupancy(ctx context.Context, from, to time.Time) ([]domain.SlotOccupancy, error)
}

// Metrics бизнес-метрики календаря
type Metrics interface {
	IncAvailabilityRequest()
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
