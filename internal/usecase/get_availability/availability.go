package get_availability

import (
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// computeAvailability строит доступность по дням для [from, to].
// from и to уже приведены к началу дня, from не раньше сегодняшнего дня
func computeAvailability(
	from, to time.Time,
	schedules []domain.MechanicSchedule,
	occupancy []domain.SlotOccupancy,
) []domain.DayAvailability {
	consumed := make(map[string]struct{}, len(occupancy))
	for _, o := range occupancy {
		consumed[o.Key()] = struct{}{}
	}

	byWeekday := make(map[int][]domain.MechanicSchedule, 7)
	for _, s := range schedules {
		byWeekday[s.DayOfWeek] = append(byWeekday[s.DayOfWeek], s)
	}

	days := make([]domain.DayAvailability, 0, domain.DaysBetween(from, to)+1)

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		day := domain.DayAvailability{Date: date}

		for _, s := range byWeekday[domain.WeekdayIndex(date)] {
			if !day.MorningAvailable && isFree(s, date, domain.SlotMorning, consumed) {
				day.MorningAvailable = true
			}
			if !day.AfternoonAvailable && isFree(s, date, domain.SlotAfternoon, consumed) {
				day.AfternoonAvailable = true
			}
			if day.MorningAvailable && day.AfternoonAvailable {
				break
			}
		}

		days = append(days, day)
	}

	return days
}

// isFree механик работает в эту половину дня и она ещё не занята
func isFree(s domain.MechanicSchedule, date time.Time, slot domain.Slot, consumed map[string]struct{}) bool {
	if !s.WorksSlot(slot) {
		return false
	}
	_, taken := consumed[domain.OccupancyKey(s.MechanicID, date, slot)]
	return !taken
}
