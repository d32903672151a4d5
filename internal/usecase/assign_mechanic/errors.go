package assign_mechanic

import "errors"

var (
	// ErrInvalidInput возвращается при пустой дате или неизвестной половине дня
	ErrInvalidInput = errors.New("invalid assignment request")

	// ErrDataAccess возвращается, когда не удалось прочитать расписания или бронирования
	ErrDataAccess = errors.New("assign mechanic: data access failed")
)
