package catalog

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
	"github.com/m04kA/SMC-BikeRepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BikeRepairService/pkg/psqlbuilder"
)

// Repository репозиторий каталога услуг мастерской
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveByIDs возвращает активные услуги из списка ids.
// Неизвестные и отключенные услуги в результат не попадают
func (r *Repository) GetActiveByIDs(ctx context.Context, ids []int64) ([]domain.RepairService, error) {
	if len(ids) == 0 {
		return []domain.RepairService{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := activeByIDsQuery(ids).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.RepairService, 0, len(ids))
	for rows.Next() {
		var s domain.RepairService
		if err := rows.Scan(&s.ID, &s.Slug, &s.Name, &s.PriceOre, &s.IsActive); err != nil {
			return nil, fmt.Errorf("%w: GetActiveByIDs - scan row: %v", ErrScanRow, err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveByIDs - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

func activeByIDsQuery(ids []int64) squirrel.SelectBuilder {
	return psqlbuilder.Select("id", "slug", "name", "price_ore", "is_active").
		From("services").
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC")
}
