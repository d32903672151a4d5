package domain

import "time"

// WeekdayIndex переводит день недели из time.Weekday (0=воскресенье)
// в формат хранения расписаний (0=понедельник ... 6=воскресенье).
// Это единственное место, где выполняется перевод
func WeekdayIndex(date time.Time) int {
	native := int(date.Weekday())
	if native == 0 {
		return 6
	}
	return native - 1
}

// DateOnly обнуляет время, оставляя календарную дату в локации даты
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateKey календарная дата в формате YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня (время не учитывается)
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}

// DaysBetween количество календарных дней от from до to (to - from)
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
