package list_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	"github.com/m04kA/SMC-BikeRepairService/internal/service/bookings/models"
)

// parseQuery разбирает фильтр из query string. Возвращает имя некорректного параметра
func parseQuery(q url.Values) (*models.ListBookingsRequest, string) {
	req := &models.ListBookingsRequest{}

	if v := q.Get("from"); v != "" {
		d, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, "from"
		}
		req.DateFrom = &d
	}
	if v := q.Get("to"); v != "" {
		d, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, "to"
		}
		req.DateTo = &d
	}
	if v := q.Get("status"); v != "" {
		req.Status = &v
	}
	if v := q.Get("mechanicId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, "mechanicId"
		}
		req.MechanicID = &id
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, "limit"
		}
		req.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, "offset"
		}
		req.Offset = n
	}

	return req, ""
}
