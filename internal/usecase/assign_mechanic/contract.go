package assign_mechanic

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний механиков
type ScheduleRepository interface {
	// GetActiveSchedulesForDay возвращает расписания активных механиков, работающих
	// в половину дня slot в день недели dayOfWeek (0=понедельник), по возрастанию ID механика
	GetActiveSchedulesForDay(ctx context.Context, dayOfWeek int, slot domain.Slot) ([]domain.MechanicSchedule, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetOccupiedMechanicIDs возвращает механиков, занятых неотмененными бронированиями на (date, slot)
	GetOccupiedMechanicIDs(ctx context.Context, date time.Time, slot domain.Slot) ([]int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
