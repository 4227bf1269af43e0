package postgres

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Dhoini/Subscription-dashboard/pkg/logger"
)

// Migrate применяет миграции схемы через goose.
// goose не работает с pgx напрямую, поэтому пул оборачивается в database/sql.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrationsPath string, log *logger.Logger) error {
	if _, err := os.Stat(migrationsPath); err != nil {
		return fmt.Errorf("migrations directory not found: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorw("Failed to close migration connection", "error", err)
		}
	}()

	goose.SetLogger(&gooseLogger{log: log})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, migrationsPath); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// gooseLogger направляет логи goose в логгер приложения
type gooseLogger struct {
	log *logger.Logger
}

func (g *gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal(format, v...)
}

func (g *gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(format, v...)
}
