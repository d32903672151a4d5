package assign_mechanic

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

func (m *mockScheduleRepo) GetActiveSchedulesForDay(ctx context.Context, dayOfWeek int, slot domain.Slot) ([]domain.MechanicSchedule, error) {
	args := m.Called(ctx, dayOfWeek, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MechanicSchedule), args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetOccupiedMechanicIDs(ctx context.Context, date time.Time, slot domain.Slot) ([]int64, error) {
	args := m.Called(ctx, date, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

func scheduled(ids ...int64) []domain.MechanicSchedule {
	out := make([]domain.MechanicSchedule, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.MechanicSchedule{MechanicID: id, DayOfWeek: 0, WorksMorning: true, WorksAfternoon: true})
	}
	return out
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name      string
		scheduled []domain.MechanicSchedule
		occupied  []int64
		wantID    int64
		wantFound bool
	}{
		{
			name:      "single free mechanic",
			scheduled: scheduled(7),
			occupied:  []int64{},
			wantID:    7,
			wantFound: true,
		},
		{
			name:      "first free in repository order",
			scheduled: scheduled(2, 5, 9),
			occupied:  []int64{2},
			wantID:    5,
			wantFound: true,
		},
		{
			name:      "all scheduled mechanics busy",
			scheduled: scheduled(2, 5),
			occupied:  []int64{5, 2},
			wantFound: false,
		},
		{
			// занятость механика без расписания на этот день ничего не блокирует
			name:      "occupied unscheduled mechanic is ignored",
			scheduled: scheduled(3),
			occupied:  []int64{8},
			wantID:    3,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedules := &mockScheduleRepo{}
			bookings := &mockBookingRepo{}
			schedules.On("GetActiveSchedulesForDay", mock.Anything, 0, domain.SlotMorning).Return(tt.scheduled, nil)
			bookings.On("GetOccupiedMechanicIDs", mock.Anything, monday, domain.SlotMorning).Return(tt.occupied, nil)

			resp, err := NewUseCase(schedules, bookings, logger.Nop()).
				Execute(context.Background(), &Request{Date: monday, Slot: domain.SlotMorning})

			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, resp.Available)
			assert.Equal(t, tt.wantID, resp.MechanicID)
			schedules.AssertExpectations(t)
			bookings.AssertExpectations(t)
		})
	}
}

func TestExecute_NobodyScheduledSkipsBookings(t *testing.T) {
	sunday := time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)
	schedules := &mockScheduleRepo{}
	bookings := &mockBookingRepo{}
	schedules.On("GetActiveSchedulesForDay", mock.Anything, 6, domain.SlotAfternoon).
		Return([]domain.MechanicSchedule{}, nil)

	resp, err := NewUseCase(schedules, bookings, logger.Nop()).
		Execute(context.Background(), &Request{Date: sunday, Slot: domain.SlotAfternoon})

	require.NoError(t, err)
	assert.False(t, resp.Available)
	bookings.AssertNotCalled(t, "GetOccupiedMechanicIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&mockScheduleRepo{}, &mockBookingRepo{}, logger.Nop())

	_, err := uc.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Slot: domain.SlotMorning})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Date: monday, Slot: "evening"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_DataAccessErrors(t *testing.T) {
	cause := errors.New("timeout")

	t.Run("schedules", func(t *testing.T) {
		schedules := &mockScheduleRepo{}
		schedules.On("GetActiveSchedulesForDay", mock.Anything, 0, domain.SlotMorning).Return(nil, cause)

		resp, err := NewUseCase(schedules, &mockBookingRepo{}, logger.Nop()).
			Execute(context.Background(), &Request{Date: monday, Slot: domain.SlotMorning})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrDataAccess)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("bookings", func(t *testing.T) {
		schedules := &mockScheduleRepo{}
		bookings := &mockBookingRepo{}
		schedules.On("GetActiveSchedulesForDay", mock.Anything, 0, domain.SlotMorning).Return(scheduled(1), nil)
		bookings.On("GetOccupiedMechanicIDs", mock.Anything, monday, domain.SlotMorning).Return(nil, cause)

		resp, err := NewUseCase(schedules, bookings, logger.Nop()).
			Execute(context.Background(), &Request{Date: monday, Slot: domain.SlotMorning})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrDataAccess)
	})
}
