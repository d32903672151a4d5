package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrPriceMismatch возвращается, когда сумма клиента не совпадает с ценами каталога
	ErrPriceMismatch = errors.New("create_booking: quoted price does not match catalogue")

	// ErrSlotNotAvailable возвращается, когда на выбранную половину дня нет свободных механиков
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrPayment возвращается, когда не удалось открыть платежную сессию.
	// Бронирование при этом уже сохранено в статусе pending
	ErrPayment = errors.New("create_booking: payment provider error")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
