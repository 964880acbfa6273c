package database

import (
	"context"
	"fmt"
	"time"

	"medquest/internal/config"
	"medquest/internal/logger"

	_ "github.com/godror/godror" // OCI based Oracle driver, registered as "godror"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // pure Go Oracle driver, registered as "oracle"
	"go.uber.org/zap"
)

func init() {
	// godror speaks :name placeholders just like go-ora
	sqlx.BindDriver("godror", sqlx.NAMED)
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// NewSQLXOracleDB opens and pings a pooled connection using the configured driver.
func NewSQLXOracleDB(cfg config.DBConfig, dsn string) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "oracle"
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database (%s): %w", driver, err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Connected to Oracle database", zap.String("driver", driver))
	return db, nil
}
