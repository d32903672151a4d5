package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	"github.com/m04kA/SMC-BikeRepairService/pkg/logger"
)

type mockScheduleRepo struct {
	mock.Mock
}

func (m *mockScheduleRepo) GetActiveSchedules(ctx context.Context) ([]domain.MechanicSchedule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MechanicSchedule), args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetSlotOccupancy(ctx context.Context, from, to time.Time) ([]domain.SlotOccupancy, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SlotOccupancy), args.Error(1)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type countingMetrics struct {
	requests int
}

func (c *countingMetrics) IncAvailabilityRequest() { c.requests++ }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestUseCase(schedules *mockScheduleRepo, bookings *mockBookingRepo, now time.Time) *UseCase {
	uc := NewUseCase(schedules, bookings, domain.DefaultMaxRangeDays, time.UTC, nil, logger.Nop())
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func TestExecute_ActiveMechanicMakesMondayAvailable(t *testing.T) {
	// Механик A активен и работает в понедельник весь день. Неактивный B отфильтрован в запросе
	monday := date(2025, 10, 13)
	schedules := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	schedules.On("GetActiveSchedules", mock.Anything).Return([]domain.MechanicSchedule{
		{MechanicID: 1, DayOfWeek: 0, WorksMorning: true, WorksAfternoon: true},
	}, nil)
	bookings.On("GetSlotOccupancy", mock.Anything, mock.Anything, mock.Anything).Return([]domain.SlotOccupancy{}, nil)

	resp, err := newTestUseCase(schedules, bookings, monday.Add(9*time.Hour)).
		Execute(context.Background(), &Request{DateFrom: monday, DateTo: monday})

	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.True(t, resp.Days[0].MorningAvailable)
	assert.True(t, resp.Days[0].AfternoonAvailable)
	schedules.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestExecute_BookedMorningOnlyMechanic(t *testing.T) {
	tuesday := date(2025, 10, 14)
	schedules := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	schedules.On("GetActiveSchedules", mock.Anything).Return([]domain.MechanicSchedule{
		{MechanicID: 1, DayOfWeek: 1, WorksMorning: true},
	}, nil)
	bookings.On("GetSlotOccupancy", mock.Anything, mock.Anything, mock.Anything).Return([]domain.SlotOccupancy{
		{MechanicID: 1, Date: tuesday, Slot: domain.SlotMorning},
	}, nil)

	resp, err := newTestUseCase(schedules, bookings, tuesday).
		Execute(context.Background(), &Request{DateFrom: tuesday, DateTo: tuesday})

	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.False(t, resp.Days[0].MorningAvailable)
	assert.False(t, resp.Days[0].AfternoonAvailable)
}

func TestExecute_PastDaysAreSkipped(t *testing.T) {
	yesterday := date(2025, 10, 14)
	today := date(2025, 10, 15)
	tomorrow := date(2025, 10, 16)

	schedules := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	schedules.On("GetActiveSchedules", mock.Anything).Return([]domain.MechanicSchedule{}, nil)
	bookings.On("GetSlotOccupancy", mock.Anything, today, tomorrow).Return([]domain.SlotOccupancy{}, nil)

	resp, err := newTestUseCase(schedules, bookings, today.Add(15*time.Hour)).
		Execute(context.Background(), &Request{DateFrom: yesterday, DateTo: tomorrow})

	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-10-15", domain.DateKey(resp.Days[0].Date))
	assert.Equal(t, "2025-10-16", domain.DateKey(resp.Days[1].Date))
	assert.Equal(t, today, resp.DateFrom)
	bookings.AssertExpectations(t)
}

func TestExecute_RangeFullyInPast(t *testing.T) {
	schedules := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}

	resp, err := newTestUseCase(schedules, bookings, date(2025, 10, 20)).
		Execute(context.Background(), &Request{DateFrom: date(2025, 10, 1), DateTo: date(2025, 10, 5)})

	require.NoError(t, err)
	assert.Empty(t, resp.Days)
	schedules.AssertNotCalled(t, "GetActiveSchedules", mock.Anything)
	bookings.AssertNotCalled(t, "GetSlotOccupancy", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_RangeLimitCountsOnlyUpcomingDays(t *testing.T) {
	// 96 дней в запросе, но после сдвига на сегодня остаётся 6
	today := date(2025, 10, 15)
	from := today.AddDate(0, 0, -90)
	to := today.AddDate(0, 0, 5)

	schedules := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	schedules.On("GetActiveSchedules", mock.Anything).Return([]domain.MechanicSchedule{}, nil)
	bookings.On("GetSlotOccupancy", mock.Anything, today, to).Return([]domain.SlotOccupancy{}, nil)

	resp, err := newTestUseCase(schedules, bookings, today.Add(8*time.Hour)).
		Execute(context.Background(), &Request{DateFrom: from, DateTo: to})

	require.NoError(t, err)
	require.Len(t, resp.Days, 6)
	assert.Equal(t, today, resp.DateFrom)
	assert.Equal(t, "2025-10-20", domain.DateKey(resp.Days[5].Date))
	bookings.AssertExpectations(t)
}

func TestExecute_RangeLimitAfterClamp(t *testing.T) {
	today := date(2025, 10, 15)
	schedules := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}

	resp, err := newTestUseCase(schedules, bookings, today).Execute(context.Background(), &Request{
		DateFrom: today.AddDate(0, 0, -10),
		DateTo:   today.AddDate(0, 0, domain.DefaultMaxRangeDays),
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrRangeTooLong)
	bookings.AssertNotCalled(t, "GetSlotOccupancy", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_TodayFollowsServiceLocation(t *testing.T) {
	// 23:30 UTC 14-го - это уже 15-е в UTC+2
	loc := time.FixedZone("CEST", 2*60*60)
	schedules := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	schedules.On("GetActiveSchedules", mock.Anything).Return([]domain.MechanicSchedule{}, nil)
	bookings.On("GetSlotOccupancy", mock.Anything, mock.Anything, mock.Anything).Return([]domain.SlotOccupancy{}, nil)

	uc := NewUseCase(schedules, bookings, 0, loc, nil, logger.Nop())
	uc.timeProvider = fixedTime{now: time.Date(2025, 10, 14, 23, 30, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{DateFrom: date(2025, 10, 14), DateTo: date(2025, 10, 16)})

	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-10-15", domain.DateKey(resp.Days[0].Date))
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"nil request", nil, ErrInvalidRange},
		{"zero from", &Request{DateTo: date(2025, 10, 20)}, ErrInvalidRange},
		{"from after to", &Request{DateFrom: date(2025, 10, 21), DateTo: date(2025, 10, 20)}, ErrInvalidRange},
		{"too long", &Request{DateFrom: date(2025, 10, 1), DateTo: date(2026, 1, 1)}, ErrRangeTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedules := &mockScheduleRepo{}
			bookings := &mockBookingRepo{}

			resp, err := newTestUseCase(schedules, bookings, date(2025, 10, 1)).Execute(context.Background(), tt.req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
			schedules.AssertNotCalled(t, "GetActiveSchedules", mock.Anything)
		})
	}
}

func TestExecute_DataAccessErrors(t *testing.T) {
	cause := errors.New("connection refused")
	day := date(2025, 10, 15)

	t.Run("schedules", func(t *testing.T) {
		schedules := &mockScheduleRepo{}
		bookings := &mockBookingRepo{}
		schedules.On("GetActiveSchedules", mock.Anything).Return(nil, cause)

		resp, err := newTestUseCase(schedules, bookings, day).
			Execute(context.Background(), &Request{DateFrom: day, DateTo: day})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrDataAccess)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("occupancy", func(t *testing.T) {
		schedules := &mockScheduleRepo{}
		bookings := &mockBookingRepo{}
		schedules.On("GetActiveSchedules", mock.Anything).Return([]domain.MechanicSchedule{
			{MechanicID: 1, DayOfWeek: 2, WorksMorning: true},
		}, nil)
		bookings.On("GetSlotOccupancy", mock.Anything, mock.Anything, mock.Anything).Return(nil, cause)

		resp, err := newTestUseCase(schedules, bookings, day).
			Execute(context.Background(), &Request{DateFrom: day, DateTo: day})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrDataAccess)
		assert.ErrorIs(t, err, cause)
	})
}

func TestExecute_CountsRequests(t *testing.T) {
	schedules := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	m := &countingMetrics{}

	uc := NewUseCase(schedules, bookings, 0, time.UTC, m, logger.Nop())
	uc.timeProvider = fixedTime{now: date(2025, 10, 20)}

	_, _ = uc.Execute(context.Background(), &Request{DateFrom: date(2025, 10, 1), DateTo: date(2025, 10, 2)})

	assert.Equal(t, 1, m.requests)
}
