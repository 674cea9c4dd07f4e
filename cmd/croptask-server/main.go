package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/croptask/internal/config"
	"github.com/existflow/croptask/internal/db"
	"github.com/existflow/croptask/internal/logger"
	"github.com/existflow/croptask/internal/planner"
	"github.com/existflow/croptask/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logCfg.FilePath = cfg.LogFile
	logCfg.Console = true
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	addr := cfg.ServerAddr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	ctx := context.Background()
	kv, err := db.Open(ctx, cfg.StoreOptions())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}()

	store := planner.NewStore(planner.NewKVRepository(kv, cfg.Namespace))
	srv := server.New(store, cfg.ChecklistDays)

	go func() {
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
