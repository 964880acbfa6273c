package main

import (
	"context"
	"flag"
	"log"
	"time"

	"medquest/internal/config"
	"medquest/internal/database"
	"medquest/internal/logger"

	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "database/migrations", "directory holding NNN_name.up.sql / .down.sql files")
	down := flag.Bool("down", false, "apply .down.sql files in reverse order")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.DB, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *down {
		err = database.RollbackMigrations(ctx, db, *dir)
	} else {
		err = database.RunMigrations(ctx, db, *dir)
	}
	if err != nil {
		l.Fatal("Migration failed", zap.Bool("down", *down), zap.String("dir", *dir), zap.Error(err))
	}
	l.Info("Migrations applied", zap.Bool("down", *down), zap.String("dir", *dir))
}
