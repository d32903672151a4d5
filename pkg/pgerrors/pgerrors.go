package pgerrors

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL
const (
	CodeUniqueViolation     = "23505"
	CodeSerializationFailed = "40001"
)

// IsUniqueViolation проверяет, что ошибка - нарушение уникального ограничения.
// Если constraint не пустой, дополнительно сверяет имя ограничения
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != CodeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsSerializationFailure проверяет, что транзакция откатилась из-за конфликта сериализации
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == CodeSerializationFailed
}
