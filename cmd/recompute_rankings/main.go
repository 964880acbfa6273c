// Command recompute_rankings rebuilds every profile's points from finished
// chats and re-ranks all doctors in one transaction.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"medquest/internal/adapter"
	"medquest/internal/cache"
	"medquest/internal/config"
	"medquest/internal/database"
	"medquest/internal/domain"
	"medquest/internal/logger"
	"medquest/internal/repository"
	"medquest/internal/service"

	"go.uber.org/zap"
)

func main() {
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

	db, err := database.NewSQLXOracleDB(cfg.DB, cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	// The leaderboard cache is optional here; without it stale entries expire on their own.
	var leaderboardCache domain.Cache
	if redisClient, err := cache.NewRedisClient(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, leaderboard cache will not be invalidated", zap.Error(err))
	} else {
		defer redisClient.Close()
		leaderboardCache = adapter.NewRedisCacheAdapter(redisClient)
	}

	ranking := service.NewRankingService(
		repository.NewSQLXProfileRepository(db),
		repository.NewSQLXChatRepository(db),
		repository.NewTransactionManagerAdapter(db),
		leaderboardCache,
		cfg.Leaderboard,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	n, err := ranking.RecomputeAll(ctx)
	if err != nil {
		log.Fatal("Recompute failed, nothing was committed", zap.Error(err))
	}
	log.Info("Rankings recomputed", zap.Int("profiles", n), zap.Duration("took", time.Since(start)))
}
