package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joinemm/quotegame/internal/config"
	"github.com/joinemm/quotegame/internal/handlers"
	"github.com/joinemm/quotegame/internal/logger"
	"github.com/joinemm/quotegame/internal/middleware"
	"github.com/joinemm/quotegame/internal/services"
	"github.com/joinemm/quotegame/internal/storage"
	"github.com/joinemm/quotegame/pkg/game"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Quotegame API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"asset_dir", cfg.AssetDir)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	assets := storage.NewAssetLibrary(cfg.AssetDir, rng)

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.StateKey, assets, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	if err := store.Load(storageCtx); err != nil {
		log.Error("Failed to load game state", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	publisher := services.NewWebhookPublisher(cfg.WebhookURL, log)

	scheduler, err := game.NewScheduler(context.Background(), store, publisher, cfg.OwnerID, rng, log)
	if err != nil {
		log.Error("Failed to create spawn scheduler", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, log))
	mux.Handle("/v1/messages", handlers.NewMessageHandler(scheduler, log))
	mux.Handle("/v1/settings", handlers.NewSettingsHandler(store, log))
	mux.Handle("/v1/challenges", handlers.NewChallengeHandler(store, log))
	mux.Handle("/v1/spawn", handlers.NewSpawnHandler(scheduler, log))
	mux.Handle("/v1/status", handlers.NewStatusHandler(scheduler, log))
	mux.Handle("/v1/inventory/", handlers.NewInventoryHandler(store, log))
	mux.Handle("/v1/leaderboard", handlers.NewLeaderboardHandler(store, log))
	mux.Handle("/v1/whitelist/", handlers.NewWhitelistHandler(store, log))

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
