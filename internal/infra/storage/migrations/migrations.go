package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
)

//go:embed sql/*.sql
var files embed.FS

// ErrMigration ошибка применения миграции
var ErrMigration = errors.New("migrations: failed to apply")

// Execer то, на чем можно выполнить DDL (*sql.DB, транзакция, dbmetrics.DB)
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Files возвращает имена .up.sql файлов в порядке применения
func Files() ([]string, error) {
	entries, err := files.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("%w: read dir: %v", ErrMigration, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// Apply выполняет все миграции по порядку. Миграции идемпотентны (IF NOT EXISTS)
func Apply(ctx context.Context, db Execer) ([]string, error) {
	names, err := Files()
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		body, err := files.ReadFile("sql/" + name)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrMigration, name, err)
		}

		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMigration, name, err)
		}
	}

	return names, nil
}
