package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fv-simulator/internal/api"
	"fv-simulator/internal/config"
	"fv-simulator/internal/data"
	"fv-simulator/internal/engine"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config (optional)")
	flag.Parse()

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Failed to load .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := cfg.NewLogger()

	calc := data.NewCalculatorClient(cfg.Calculator.BaseURL, cfg.Calculator.Timeout, logger)
	store := data.NewSessionStore[*engine.Engine](cfg.Sessions.TTL, logger)
	if err := store.StartPurge(cfg.Sessions.Purge); err != nil {
		logger.Fatalf("Failed to schedule session purge: %v", err)
	}
	defer store.Stop()

	router := api.NewRouter(cfg, calc, store, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Calculator.Timeout + 30*time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":       addr,
			"env":        cfg.Server.Env,
			"calculator": cfg.Calculator.BaseURL,
		}).Info("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
