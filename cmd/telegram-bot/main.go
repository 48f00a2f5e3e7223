package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"shopping-list/internal/app"
	"shopping-list/internal/clipper"
	"shopping-list/internal/config"
	"shopping-list/internal/database"
	"shopping-list/internal/metrics"
	"shopping-list/internal/shopping"
	"shopping-list/internal/storage"
	"shopping-list/internal/telegram"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "telegram-bot",
	})

	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		logger.Fatal("invalid telegram config", "err", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// 2. Initialize Storage
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", "err", err)
	}
	defer db.Close()

	recipeStore, created, err := storage.NewRecipeStore(cfg.RecipeDir)
	if err != nil {
		logger.Fatal("failed to open recipe directory", "err", err)
	}
	if created {
		logger.Info("created recipe directory", "dir", cfg.RecipeDir)
	}

	metricsStore := metrics.NewStore(db.SQL)

	// 3. Initialize Services
	application := app.NewApp(recipeStore, shopping.NewRepository(db.SQL), metricsStore, logger)
	if _, err := application.LoadRecipes(); err != nil {
		logger.Fatal("failed to load recipes", "err", err)
	}
	recipeClipper := clipper.NewClipper(application)

	// 4. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, application, recipeClipper, metricsStore, logger)
	if err != nil {
		logger.Fatal("failed to initialize telegram bot", "err", err)
	}

	// 5. Start Server with Graceful Shutdown
	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("telegram bot server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}
	bot.Wait()

	logger.Info("server exiting")
}
