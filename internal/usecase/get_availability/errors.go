package get_availability

import "errors"

var (
	// ErrInvalidRange возвращается, когда dateFrom > dateTo или даты не заданы
	ErrInvalidRange = errors.New("invalid date range")

	// ErrRangeTooLong возвращается, когда диапазон длиннее допустимого
	ErrRangeTooLong = errors.New("date range is too long")

	// ErrDataAccess возвращается, когда не удалось прочитать расписания или бронирования.
	// Частичный результат в этом случае не возвращается
	ErrDataAccess = errors.New("availability: data access failed")
)
