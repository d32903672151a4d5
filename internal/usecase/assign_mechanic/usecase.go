package assign_mechanic

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// UseCase детерминированно выбирает свободного механика на дату и половину дня.
// Если в контексте есть транзакция, чтения выполняются в ней
type UseCase struct {
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(scheduleRepo ScheduleRepository, bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		logger:       logger,
	}
}

// Execute выполняет выбор механика
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Date.IsZero() || !req.Slot.IsValid() {
		return nil, fmt.Errorf("%w: date and slot are required", ErrInvalidInput)
	}

	date := domain.DateKey(req.Date)
	dayOfWeek := domain.WeekdayIndex(req.Date)

	// 1. Кто работает в эту половину дня
	schedules, err := uc.scheduleRepo.GetActiveSchedulesForDay(ctx, dayOfWeek, req.Slot)
	if err != nil {
		uc.logger.Error("AssignMechanic: failed to get schedules: date=%s, slot=%s, err=%v", date, req.Slot, err)
		return nil, fmt.Errorf("%w: failed to get schedules: %w", ErrDataAccess, err)
	}

	if len(schedules) == 0 {
		uc.logger.Info("AssignMechanic: nobody scheduled: date=%s, slot=%s, dow=%d", date, req.Slot, dayOfWeek)
		return &Response{Available: false}, nil
	}

	// 2. Кто уже занят
	occupied, err := uc.bookingRepo.GetOccupiedMechanicIDs(ctx, req.Date, req.Slot)
	if err != nil {
		uc.logger.Error("AssignMechanic: failed to get occupied mechanics: date=%s, slot=%s, err=%v", date, req.Slot, err)
		return nil, fmt.Errorf("%w: failed to get occupied mechanics: %w", ErrDataAccess, err)
	}

	taken := make(map[int64]struct{}, len(occupied))
	for _, id := range occupied {
		taken[id] = struct{}{}
	}

	// 3. Первый свободный в порядке репозитория (по ID механика)
	for _, s := range schedules {
		if _, busy := taken[s.MechanicID]; busy {
			continue
		}
		uc.logger.Info("AssignMechanic: assigned mechanic=%d, date=%s, slot=%s", s.MechanicID, date, req.Slot)
		return &Response{MechanicID: s.MechanicID, Available: true}, nil
	}

	uc.logger.Info("AssignMechanic: all %d mechanics busy: date=%s, slot=%s", len(schedules), date, req.Slot)
	return &Response{Available: false}, nil
}
