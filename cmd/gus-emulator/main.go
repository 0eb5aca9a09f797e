// Package main runs a local GUS DBW API emulator.
//
// Point GUS_API_URL at http://localhost:8080/api/1.1.0 to use it.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pigeonworks-llc/gus-income/pkg/config"
	"github.com/pigeonworks-llc/gus-income/pkg/emulator"
	"github.com/shopspring/decimal"
)

func main() {
	// Setup structured JSON logging.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	// The real API returns wartosc as a JSON number.
	decimal.MarshalJSONWithoutQuotes = true

	st, err := emulator.NewStore(cfg.Emulator.DBPath)
	if err != nil {
		slog.Error("failed to initialize store", "error", err, "db_path", cfg.Emulator.DBPath)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	slog.Info("database initialized", "db_path", cfg.Emulator.DBPath)

	if cfg.Emulator.SeedFile != "" {
		seed, err := emulator.LoadSeed(cfg.Emulator.SeedFile)
		if err != nil {
			slog.Error("failed to load seed", "error", err, "seed_file", cfg.Emulator.SeedFile)
			os.Exit(1)
		}
		if err := st.Apply(seed); err != nil {
			slog.Error("failed to apply seed", "error", err)
			os.Exit(1)
		}
		slog.Info("seed applied", "seed_file", cfg.Emulator.SeedFile, "records", len(seed.Records), "faults", len(seed.Faults))
	}

	handler := emulator.NewHandler(st, logger)

	addr := fmt.Sprintf(":%s", cfg.Emulator.Port)
	slog.Info("starting GUS API emulator", "addr", addr, "base_url", fmt.Sprintf("http://localhost%s%s", addr, emulator.APIPrefix))

	server := &http.Server{
		Addr:         addr,
		Handler:      emulator.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		if err := server.Close(); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
