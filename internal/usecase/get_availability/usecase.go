package get_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// UseCase use case построения календаря доступных половин дня
type UseCase struct {
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	maxRangeDays int
	location     *time.Location
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// location определяет, какой календарный день считается сегодняшним.
// maxRangeDays = 0 снимает ограничение длины диапазона
func NewUseCase(
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	maxRangeDays int,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		maxRangeDays: maxRangeDays,
		location:     location,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if uc.metrics != nil {
		uc.metrics.IncAvailabilityRequest()
	}

	// 1. Валидация диапазона
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailability: from=%s, to=%s",
		domain.DateKey(req.DateFrom), domain.DateKey(req.DateTo))

	// 2. Прошедшие дни пропускаются, а не возвращаются занятыми
	today := domain.DateOnly(uc.timeProvider.Now().In(uc.location))
	from := uc.calendarDate(req.DateFrom)
	to := uc.calendarDate(req.DateTo)
	if from.Before(today) {
		from = today
	}

	if from.After(to) {
		uc.logger.Info("GetAvailability: range %s..%s is in the past",
			domain.DateKey(req.DateFrom), domain.DateKey(req.DateTo))
		return &Response{DateFrom: from, DateTo: to, Days: []domain.DayAvailability{}}, nil
	}

	if err := validateRangeLength(from, to, uc.maxRangeDays); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 3. Расписания активных механиков
	schedules, err := uc.scheduleRepo.GetActiveSchedules(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get schedules: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedules: %w", ErrDataAccess, err)
	}

	// 4. Занятость механиков в диапазоне
	occupancy, err := uc.bookingRepo.GetSlotOccupancy(ctx, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get occupancy: %v", err)
		return nil, fmt.Errorf("%w: failed to get occupancy: %w", ErrDataAccess, err)
	}

	days := computeAvailability(from, to, schedules, occupancy)

	uc.logger.Info("GetAvailability: computed %d days, schedules=%d, occupied=%d",
		len(days), len(schedules), len(occupancy))

	return &Response{DateFrom: from, DateTo: to, Days: days}, nil
}

// calendarDate переносит календарную дату в локацию сервиса без сдвига дня
func (uc *UseCase) calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, uc.location)
}
