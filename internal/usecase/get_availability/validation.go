package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// validateRequest проверяет диапазон дат в том виде, в котором его прислал клиент
func validateRequest(req *Request) error {
	if req == nil || req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return fmt.Errorf("%w: dates are required", ErrInvalidRange)
	}

	if domain.DaysBetween(req.DateFrom, req.DateTo) < 0 {
		return fmt.Errorf("%w: date_from %s is after date_to %s", ErrInvalidRange,
			domain.DateKey(req.DateFrom), domain.DateKey(req.DateTo))
	}

	return nil
}

// validateRangeLength ограничивает длину диапазона, который реально будет посчитан.
// from уже сдвинут на сегодня, прошедшие дни в лимит не входят
func validateRangeLength(from, to time.Time, maxRangeDays int) error {
	if maxRangeDays <= 0 {
		return nil
	}

	days := domain.DaysBetween(from, to) + 1
	if days > maxRangeDays {
		return fmt.Errorf("%w: %d days requested, max %d", ErrRangeTooLong, days, maxRangeDays)
	}

	return nil
}
