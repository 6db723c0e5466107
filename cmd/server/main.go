package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/mabelcare/mabel/internal/api"
	"github.com/mabelcare/mabel/internal/chat"
	"github.com/mabelcare/mabel/internal/config"
	"github.com/mabelcare/mabel/internal/db"
	"github.com/mabelcare/mabel/internal/respond"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("dbPath", cfg.DBPath))
	}
	defer database.Close()

	if err := database.Seed(); err != nil {
		logger.Fatal("failed to seed default topics", zap.Error(err))
	}

	var strategy respond.Strategy
	switch cfg.ChatProvider {
	case config.ProviderOpenAI:
		strategy = respond.NewRemote(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel, logger)
	default:
		strategy = respond.NewLocal()
	}
	logger.Info("response strategy selected", zap.String("provider", cfg.ChatProvider))

	chatService := chat.NewService(database, strategy, logger)
	handler := api.NewHandler(database, chatService, logger)

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler.Router()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
