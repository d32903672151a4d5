package domain

import (
	"strconv"
	"time"
)

// Mechanic механик мобильной мастерской. Создается администратором вне сервиса
type Mechanic struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MechanicSchedule недельное расписание механика на один день недели.
// DayOfWeek хранится в формате 0=понедельник ... 6=воскресенье
type MechanicSchedule struct {
	MechanicID     int64
	DayOfWeek      int
	WorksMorning   bool
	WorksAfternoon bool
}

// WorksSlot returns true if the mechanic works the given half-day
func (s MechanicSchedule) WorksSlot(slot Slot) bool {
	switch slot {
	case SlotMorning:
		return s.WorksMorning
	case SlotAfternoon:
		return s.WorksAfternoon
	}
	return false
}

// SlotOccupancy половина дня, занятая активным бронированием механика
type SlotOccupancy struct {
	MechanicID int64
	Date       time.Time
	Slot       Slot
}

// Key ключ занятости вида "7/2025-10-15/morning"
func (o SlotOccupancy) Key() string {
	return OccupancyKey(o.MechanicID, o.Date, o.Slot)
}

// OccupancyKey ключ занятости механика в конкретную половину дня
func OccupancyKey(mechanicID int64, date time.Time, slot Slot) string {
	return strconv.FormatInt(mechanicID, 10) + "/" + HalfDaySlot{Date: date, Slot: slot}.Key()
}
