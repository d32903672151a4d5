package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	"github.com/m04kA/SMC-BikeRepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BikeRepairService/pkg/psqlbuilder"
)

// Repository репозиторий недельных расписаний механиков
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveSchedules возвращает расписания только активных механиков
func (r *Repository) GetActiveSchedules(ctx context.Context) ([]domain.MechanicSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := activeSchedulesQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveSchedules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveSchedules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSchedules(rows, "GetActiveSchedules")
}

// GetActiveSchedulesForDay возвращает расписания активных механиков, работающих
// в указанную половину дня недели (0=понедельник). Порядок - по ID механика
func (r *Repository) GetActiveSchedulesForDay(ctx context.Context, dayOfWeek int, slot domain.Slot) ([]domain.MechanicSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder, err := activeSchedulesForDayQuery(dayOfWeek, slot)
	if err != nil {
		return nil, err
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveSchedulesForDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveSchedulesForDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSchedules(rows, "GetActiveSchedulesForDay")
}

func activeSchedulesQuery() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"s.mechanic_id",
		"s.day_of_week",
		"s.works_morning",
		"s.works_afternoon",
	).
		From("mechanic_schedules s").
		Join("mechanics m ON m.id = s.mechanic_id").
		Where(squirrel.Eq{"m.is_active": true})
}

func activeSchedulesForDayQuery(dayOfWeek int, slot domain.Slot) (squirrel.SelectBuilder, error) {
	var slotColumn string
	switch slot {
	case domain.SlotMorning:
		slotColumn = "s.works_morning"
	case domain.SlotAfternoon:
		slotColumn = "s.works_afternoon"
	default:
		return squirrel.SelectBuilder{}, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}

	return activeSchedulesQuery().
		Where(squirrel.Eq{"s.day_of_week": dayOfWeek}).
		Where(squirrel.Eq{slotColumn: true}).
		OrderBy("s.mechanic_id ASC"), nil
}

func scanSchedules(rows *sql.Rows, op string) ([]domain.MechanicSchedule, error) {
	schedules := make([]domain.MechanicSchedule, 0)

	for rows.Next() {
		var s domain.MechanicSchedule
		if err := rows.Scan(&s.MechanicID, &s.DayOfWeek, &s.WorksMorning, &s.WorksAfternoon); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return schedules, nil
}
