package payment

import "errors"

var (
	// ErrDuplicateEvent событие платежного провайдера уже обработано
	ErrDuplicateEvent = errors.New("payment.repository: event already processed")

	ErrBuildQuery = errors.New("payment.repository: failed to build query")
	ErrExecQuery  = errors.New("payment.repository: failed to execute query")
)
