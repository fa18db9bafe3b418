package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rizecleaning/clara/internal/ai"
	"github.com/rizecleaning/clara/internal/api"
	"github.com/rizecleaning/clara/internal/config"
	"github.com/rizecleaning/clara/internal/conversation"
	"github.com/rizecleaning/clara/internal/llm"
	"github.com/rizecleaning/clara/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()
	slog.SetDefault(logger)

	db, err := store.NewBoltStore(filepath.Join(cfg.DataDir, "clara.db"))
	if err != nil {
		logger.Error("store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.ChatModel, cfg.LLMTimeout)
	if err != nil {
		logger.Error("llm client", "error", err)
		os.Exit(1)
	}

	svc, err := ai.NewService(client, conversation.NewStore(), logger)
	if err != nil {
		logger.Error("chat service", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(svc, db, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(handler, cfg.CORSOrigins),
		// Write timeout sits above the model call timeout so slow completions
		// are cut off by the client, not mid-response by the server.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("clara: listening", "port", cfg.Port, "model", client.Model())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("clara: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("clara: stopped")
}
