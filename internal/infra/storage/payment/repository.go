package payment

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-BikeRepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BikeRepairService/pkg/pgerrors"
	"github.com/m04kA/SMC-BikeRepairService/pkg/psqlbuilder"
)

const eventsPrimaryKey = "payment_events_pkey"

// Repository журнал обработанных событий платежного провайдера
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий оплаты
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertEvent фиксирует событие. Повторная доставка того же события возвращает ErrDuplicateEvent
func (r *Repository) InsertEvent(ctx context.Context, eventID, eventType string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_events").
		Columns("provider_event_id", "event_type").
		Values(eventID, eventType).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: InsertEvent - build insert query: %v", ErrBuildQuery, err)
	}

	_, err = executor.ExecContext(ctx, query, args...)
	if pgerrors.IsUniqueViolation(err, eventsPrimaryKey) {
		return ErrDuplicateEvent
	}
	if err != nil {
		return fmt.Errorf("%w: InsertEvent - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
