package get_availability

import (
	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	getAvailability "github.com/m04kA/SMC-BikeRepairService/internal/usecase/get_availability"
)

// DayResponse доступность одного дня календаря
type DayResponse struct {
	Date      string `json:"date"` // "2025-10-15"
	Morning   bool   `json:"morning"`
	Afternoon bool   `json:"afternoon"`
	Available bool   `json:"available"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	From string        `json:"from"`
	To   string        `json:"to"`
	Days []DayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		From: domain.DateKey(resp.DateFrom),
		To:   domain.DateKey(resp.DateTo),
		Days: make([]DayResponse, 0, len(resp.Days)),
	}

	for _, d := range resp.Days {
		out.Days = append(out.Days, DayResponse{
			Date:      domain.DateKey(d.Date),
			Morning:   d.MorningAvailable,
			Afternoon: d.AfternoonAvailable,
			Available: d.HasAny(),
		})
	}

	return out
}
