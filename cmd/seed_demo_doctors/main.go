package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"medquest/cmd/seed_demo_doctors/internal/seedmodels"
	"medquest/internal/config"
	"medquest/internal/database"
	"medquest/internal/domain"
	"medquest/internal/logger"
	"medquest/internal/repository"
	"medquest/internal/service"

	"go.uber.org/zap"
)

func main() {
	seedFilePath := flag.String("file", "config/seed_data/demo_doctors.json", "JSON array of {email, password, username}")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting demo doctor seeding...")
	db, err := database.NewSQLXOracleDB(cfg.DB, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	byteValue, err := os.ReadFile(*seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFilePath), zap.Error(err))
	}
	var doctors []seedmodels.SeedDoctor
	if err := json.Unmarshal(byteValue, &doctors); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	profileRepo := repository.NewSQLXProfileRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)
	ranking := service.NewRankingService(profileRepo, repository.NewSQLXChatRepository(db), txManager, nil, cfg.Leaderboard)
	authService, err := service.NewAuthService(repository.NewSQLXUserRepository(db), profileRepo, txManager, ranking, cfg.Auth)
	if err != nil {
		log.Fatal("Failed to create AuthService", zap.Error(err))
	}

	created, skipped := 0, 0
	for _, d := range doctors {
		user, _, _, err := authService.Register(ctx, d.Email, d.Password, d.Username)
		switch {
		case errors.Is(err, domain.ErrConflict):
			log.Info("Doctor exists, skipping", zap.String("email", d.Email))
			skipped++
		case err != nil:
			log.Error("Failed to seed doctor, transaction rolled back", zap.String("email", d.Email), zap.Error(err))
		default:
			log.Info("Created doctor", zap.String("id", user.ID), zap.String("email", user.Email))
			created++
		}
	}
	log.Info("Demo doctor seeding completed", zap.Int("created", created), zap.Int("skipped", skipped))
}
