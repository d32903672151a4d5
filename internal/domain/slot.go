package domain

import (
	"fmt"
	"time"
)

// Slot половина рабочего дня механика
type Slot string

const (
	SlotMorning   Slot = "morning"   // 08:00-12:00
	SlotAfternoon Slot = "afternoon" // 12:00-17:00
)

// Slots все половины дня в порядке следования
var Slots = []Slot{SlotMorning, SlotAfternoon}

// IsValid returns true if the slot is one of the known half-days
func (s Slot) IsValid() bool {
	return s == SlotMorning || s == SlotAfternoon
}

func (s Slot) String() string {
	return string(s)
}

// ParseSlot разбирает строковое значение слота
func ParseSlot(v string) (Slot, error) {
	s := Slot(v)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown slot %q", v)
	}
	return s, nil
}

// HalfDaySlot конкретная половина конкретного дня. Не хранится в БД
type HalfDaySlot struct {
	Date time.Time
	Slot Slot
}

// Key ключ слота вида "2025-10-15/morning"
func (h HalfDaySlot) Key() string {
	return h.Date.Format(DateFormat) + "/" + string(h.Slot)
}

// DayAvailability доступность одного календарного дня
type DayAvailability struct {
	Date               time.Time
	MorningAvailable   bool
	AfternoonAvailable bool
}

// HasAny returns true if at least one half-day is free
func (d DayAvailability) HasAny() bool {
	return d.MorningAvailable || d.AfternoonAvailable
}

// IsAvailable returns true if the given half-day is free
func (d DayAvailability) IsAvailable(slot Slot) bool {
	switch slot {
	case SlotMorning:
		return d.MorningAvailable
	case SlotAfternoon:
		return d.AfternoonAvailable
	}
	return false
}
