package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	"github.com/m04kA/SMC-BikeRepairService/pkg/ptr"
)

func TestOccupancyInRangeQuery(t *testing.T) {
	from := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC)

	query, args, err := occupancyInRangeQuery(from, to).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM bookings")
	assert.Contains(t, query, "requested_date >= $1")
	assert.Contains(t, query, "requested_date <= $2")
	assert.Contains(t, query, "status <> $3")
	assert.Contains(t, query, "mechanic_id IS NOT NULL")
	assert.Equal(t, []interface{}{"2025-10-13", "2025-11-09", "cancelled"}, args)
}

// Отмененные бронирования механика не занимают: фильтр status <> cancelled
func TestOccupiedMechanicsQuery(t *testing.T) {
	date := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)

	query, args, err := occupiedMechanicsQuery(date, domain.SlotMorning).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "SELECT DISTINCT mechanic_id FROM bookings")
	assert.Contains(t, query, "requested_date = $1")
	assert.Contains(t, query, "slot = $2")
	assert.Contains(t, query, "status <> $3")
	assert.Contains(t, query, "mechanic_id IS NOT NULL")
	assert.Equal(t, []interface{}{"2025-10-14", "morning", "cancelled"}, args)
}

func TestListQuery(t *testing.T) {
	status := domain.StatusConfirmed
	filter := domain.BookingsFilter{
		DateFrom:   ptr.Ptr(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)),
		Status:     &status,
		MechanicID: ptr.Ptr(int64(3)),
		Limit:      50,
		Offset:     100,
	}

	query, args, err := listQuery(filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "requested_date >= $1")
	assert.NotContains(t, query, "requested_date <=")
	assert.Contains(t, query, "status = $2")
	assert.Contains(t, query, "mechanic_id = $3")
	assert.Contains(t, query, "ORDER BY requested_date ASC, slot DESC, id ASC")
	assert.Contains(t, query, "LIMIT 50")
	assert.Contains(t, query, "OFFSET 100")
	assert.Equal(t, []interface{}{"2025-10-01", "confirmed", int64(3)}, args)
}

func TestListQuery_NoFilter(t *testing.T) {
	query, args, err := listQuery(domain.BookingsFilter{}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

func TestDashboardQuery(t *testing.T) {
	today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	query, args, err := dashboardQuery(today).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "COUNT(*) FILTER (WHERE requested_date >= $1 AND status <> $2)")
	assert.Contains(t, query, "COALESCE(SUM(total_ore) FILTER (WHERE payment_status = $6), 0)")
	assert.Equal(t, []interface{}{"2025-10-15", "cancelled", "pending", "unpaid", "cancelled", "paid"}, args)
}
