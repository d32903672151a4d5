package assign_mechanic

import (
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// Request запрос на выбор механика для половины дня
type Request struct {
	Date time.Time
	Slot domain.Slot
}

// Response результат назначения. Available = false - свободных механиков нет, это не ошибка
type Response struct {
	MechanicID int64
	Available  bool
}
