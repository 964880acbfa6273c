// @title MedQuest API
// @version 1.0
// @description Diagnosis training game: interview a generated patient, then name the disease.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "medquest/cmd/api/docs"
	"medquest/internal/adapter"
	"medquest/internal/adapter/evaluator"
	"medquest/internal/adapter/llm"
	"medquest/internal/adapter/patientgen"
	"medquest/internal/adapter/responder"
	"medquest/internal/cache"
	"medquest/internal/config"
	"medquest/internal/database"
	"medquest/internal/handler"
	"medquest/internal/logger"
	"medquest/internal/middleware"
	"medquest/internal/repository"
	"medquest/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.DB, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// One model client shared by the three prompt components.
	model, err := llm.NewModel(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	completer := llm.NewCompleter(model, cfg.LLM)
	appLogger.Info("LLM client initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	generator := patientgen.NewGenerator(completer, rng, appLogger)
	patientResponder := responder.NewResponder(completer, appLogger)
	diagnosisEvaluator := evaluator.NewLLMEvaluator(completer, appLogger)

	userRepo := repository.NewSQLXUserRepository(db)
	profileRepo := repository.NewSQLXProfileRepository(db)
	chatRepo := repository.NewSQLXChatRepository(db)
	messageRepo := repository.NewSQLXMessageRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	rankingService := service.NewRankingService(profileRepo, chatRepo, txManager, cacheAdapter, cfg.Leaderboard)
	authService, err := service.NewAuthService(userRepo, profileRepo, txManager, rankingService, cfg.Auth)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	chatService := service.NewChatService(service.ChatDeps{
		ChatRepo:    chatRepo,
		MessageRepo: messageRepo,
		TxManager:   txManager,
		Generator:   generator,
		Responder:   patientResponder,
		Evaluator:   diagnosisEvaluator,
		Ranking:     rankingService,
		Cache:       cacheAdapter,
	}, cfg.Game)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.Routes{
		Auth:           handler.NewAuthHandler(authService),
		Users:          handler.NewUserHandler(rankingService),
		Chats:          handler.NewChatHandler(chatService),
		Health:         handler.NewHealthHandler(db, cacheAdapter),
		Tokens:         authService,
		LeaderboardMax: cfg.Leaderboard.MaxLimit,
	}.Register(app)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
