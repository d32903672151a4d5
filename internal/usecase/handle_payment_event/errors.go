package handle_payment_event

import "errors"

var (
	// ErrInvalidInput возвращается для события без ID или типа
	ErrInvalidInput = errors.New("handle_payment_event: invalid event")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("handle_payment_event: internal error")
)
