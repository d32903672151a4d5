package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	"github.com/m04kA/SMC-BikeRepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BikeRepairService/pkg/psqlbuilder"
)

// Repository репозиторий клиентов и их велосипедов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertByPhone создает клиента или обновляет имя и email существующего с тем же телефоном.
// Пустой email не затирает сохраненный
func (r *Repository) UpsertByPhone(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := upsertQuery(customer).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&customer.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - execute upsert: %v", ErrExecQuery, err)
	}

	customer.CreatedAt = createdAt.Time
	customer.UpdatedAt = updatedAt.Time

	return customer, nil
}

// CountBikes количество велосипедов клиента
func (r *Repository) CountBikes(ctx context.Context, customerID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bikes").
		Where(squirrel.Eq{"customer_id": customerID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountBikes - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBikes - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CreateBike сохраняет новый велосипед клиента
func (r *Repository) CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bikes").
		Columns("customer_id", "nickname", "bike_type").
		Values(bike.CustomerID, bike.Nickname, bike.BikeType).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBike - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&bike.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBike - execute insert: %v", ErrExecQuery, err)
	}
	bike.CreatedAt = createdAt.Time

	return bike, nil
}

func upsertQuery(customer *domain.Customer) squirrel.InsertBuilder {
	return psqlbuilder.Insert("customers").
		Columns("phone", "name", "email").
		Values(customer.Phone, customer.Name, customer.Email).
		Suffix("ON CONFLICT (phone) DO UPDATE SET " +
			"name = EXCLUDED.name, " +
			"email = COALESCE(EXCLUDED.email, customers.email), " +
			"updated_at = NOW() " +
			"RETURNING id, created_at, updated_at")
}
