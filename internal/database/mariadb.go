// Package database owns the MariaDB and Redis connection lifecycle. Both
// connections are opened once at startup and handed to the plugins through
// the app container.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Registers the "mysql" driver.
	_ "github.com/go-sql-driver/mysql"

	"github.com/campuskit/scholarbase/internal/config"
)

// NewMariaDB opens a MariaDB connection pool with the pool limits from cfg
// and waits until the server answers a ping before returning.
func NewMariaDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForPing(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// waitForPing pings with exponential backoff. In a compose cold start the
// database container usually comes up after the app, so failing fast here
// would just crash-loop.
func waitForPing(db *sql.DB) error {
	const attempts = 10
	backoff := time.Second

	var err error
	for i := 1; i <= attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts {
			break
		}

		slog.Warn("mariadb not ready, retrying",
			slog.Int("attempt", i),
			slog.Duration("backoff", backoff),
			slog.Any("error", err),
		)
		time.Sleep(backoff)
		backoff = min(backoff*2, 30*time.Second)
	}
	return fmt.Errorf("pinging mariadb after %d attempts: %w", attempts, err)
}
