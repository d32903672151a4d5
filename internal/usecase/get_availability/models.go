package get_availability

import (
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// Request модель запроса календаря доступности
type Request struct {
	DateFrom time.Time // Первый день диапазона (время не учитывается)
	DateTo   time.Time // Последний день диапазона включительно
}

// Response модель ответа: по записи на каждый день от max(DateFrom, сегодня) до DateTo
type Response struct {
	DateFrom time.Time
	DateTo   time.Time
	Days     []domain.DayAvailability
}
