package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	"github.com/m04kA/SMC-BikeRepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BikeRepairService/pkg/pgerrors"
	"github.com/m04kA/SMC-BikeRepairService/pkg/psqlbuilder"
)

// MechanicSlotConstraint уникальный индекс, запрещающий двойное бронирование механика
const MechanicSlotConstraint = "bookings_mechanic_slot_uniq"

var bookingColumns = []string{
	"id",
	"customer_id",
	"bike_id",
	"mechanic_id",
	"requested_date",
	"slot",
	"status",
	"bike_type",
	"service_ids",
	"total_ore",
	"currency",
	"locale",
	"address",
	"notes",
	"payment_status",
	"checkout_session_id",
	"checkout_url",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если механик уже занят активным бронированием на ту же дату и половину дня,
// возвращает ErrSlotTaken - вызывающий код должен заново выбрать механика.
// Внутри транзакции ошибка уникальности прерывает транзакцию, поэтому повторять
// нужно всю транзакцию целиком
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id",
			"bike_id",
			"mechanic_id",
			"requested_date",
			"slot",
			"status",
			"bike_type",
			"service_ids",
			"total_ore",
			"currency",
			"locale",
			"address",
			"notes",
			"payment_status",
		).
		Values(
			booking.CustomerID,
			booking.BikeID,
			booking.MechanicID,
			domain.DateKey(booking.RequestedDate),
			booking.Slot,
			booking.Status,
			booking.BikeType,
			pq.Array(booking.ServiceIDs),
			booking.TotalOre,
			booking.Currency,
			booking.Locale,
			booking.Address,
			booking.Notes,
			booking.PaymentStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if pgerrors.IsUniqueViolation(err, MechanicSlotConstraint) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetSlotOccupancy возвращает занятые половины дня механиков в диапазоне дат [from, to].
// Учитываются только неотмененные бронирования с назначенным механиком
func (r *Repository) GetSlotOccupancy(ctx context.Context, from, to time.Time) ([]domain.SlotOccupancy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := occupancyInRangeQuery(from, to).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotOccupancy - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlotOccupancy - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	occupancy := make([]domain.SlotOccupancy, 0)
	for rows.Next() {
		var o domain.SlotOccupancy
		if err := rows.Scan(&o.MechanicID, &o.Date, &o.Slot); err != nil {
			return nil, fmt.Errorf("%w: GetSlotOccupancy - scan row: %v", ErrScanRow, err)
		}
		occupancy = append(occupancy, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSlotOccupancy - rows error: %v", ErrScanRow, err)
	}

	return occupancy, nil
}

// GetOccupiedMechanicIDs возвращает механиков, уже занятых на конкретную дату и половину дня
func (r *Repository) GetOccupiedMechanicIDs(ctx context.Context, date time.Time, slot domain.Slot) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := occupiedMechanicsQuery(date, slot).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedMechanicIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedMechanicIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetOccupiedMechanicIDs - scan mechanic_id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedMechanicIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// List получает бронирования для back-office с фильтрацией и пагинацией
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// AttachCheckout сохраняет данные платежной сессии
func (r *Repository) AttachCheckout(ctx context.Context, id int64, sessionID, checkoutURL string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("checkout_session_id", sessionID).
		Set("checkout_url", checkoutURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachCheckout - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "AttachCheckout", query, args)
}

// UpdateStatus обновляет статус бронирования и статус оплаты
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, payment domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("payment_status", payment).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет бронирование с указанием причины.
// Отменить можно только ожидающее или подтвержденное бронирование
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	err = r.execAffectingOne(ctx, executor, "Cancel", query, args)
	if errors.Is(err, ErrBookingNotFound) {
		return ErrCannotCancel
	}
	return err
}

// GetDashboardStats считает агрегаты для back-office
func (r *Repository) GetDashboardStats(ctx context.Context, today time.Time) (*domain.DashboardStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := dashboardQuery(today).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDashboardStats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.DashboardStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalBookings,
		&stats.UpcomingBookings,
		&stats.PendingPayment,
		&stats.Cancelled,
		&stats.RevenueOre,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDashboardStats - scan row: %v", ErrScanRow, err)
	}

	return &stats, nil
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func occupancyInRangeQuery(from, to time.Time) squirrel.SelectBuilder {
	return psqlbuilder.Select("mechanic_id", "requested_date", "slot").
		From("bookings").
		Where(squirrel.GtOrEq{"requested_date": domain.DateKey(from)}).
		Where(squirrel.LtOrEq{"requested_date": domain.DateKey(to)}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		Where(squirrel.NotEq{"mechanic_id": nil})
}

func occupiedMechanicsQuery(date time.Time, slot domain.Slot) squirrel.SelectBuilder {
	return psqlbuilder.Select("DISTINCT mechanic_id").
		From("bookings").
		Where(squirrel.Eq{"requested_date": domain.DateKey(date)}).
		Where(squirrel.Eq{"slot": string(slot)}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		Where(squirrel.NotEq{"mechanic_id": nil})
}

func listQuery(filter domain.BookingsFilter) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"requested_date": domain.DateKey(*filter.DateFrom)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"requested_date": domain.DateKey(*filter.DateTo)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.MechanicID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"mechanic_id": *filter.MechanicID})
	}

	selectBuilder = selectBuilder.OrderBy("requested_date ASC", "slot DESC", "id ASC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	return selectBuilder
}

func dashboardQuery(today time.Time) squirrel.SelectBuilder {
	return psqlbuilder.Select("COUNT(*)").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE requested_date >= ? AND status <> ?)",
			domain.DateKey(today), string(domain.StatusCancelled))).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ? AND payment_status = ?)",
			string(domain.StatusPending), string(domain.PaymentUnpaid))).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", string(domain.StatusCancelled))).
		Column(squirrel.Expr("COALESCE(SUM(total_ore) FILTER (WHERE payment_status = ?), 0)",
			string(domain.PaymentPaid))).
		From("bookings")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку в порядке bookingColumns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime
	var serviceIDs pq.Int64Array

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.BikeID,
		&booking.MechanicID,
		&booking.RequestedDate,
		&booking.Slot,
		&booking.Status,
		&booking.BikeType,
		&serviceIDs,
		&booking.TotalOre,
		&booking.Currency,
		&booking.Locale,
		&booking.Address,
		&booking.Notes,
		&booking.PaymentStatus,
		&booking.CheckoutSessionID,
		&booking.CheckoutURL,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.ServiceIDs = []int64(serviceIDs)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
