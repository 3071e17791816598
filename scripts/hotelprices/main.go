package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	appLogger "github.com/FACorreiaa/go-trip-planner/app/logger"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/hotelprice"
)

// Scrapes current prices for the configured hotels (or the hotel names given
// as arguments) and writes them to the configured CSV file.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := appLogger.New(os.Stdout, cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hotels := cfg.Scraper.Hotels
	if len(os.Args) > 1 {
		hotels = os.Args[1:]
	}
	if len(hotels) == 0 {
		logger.Error("No hotels to scrape")
		os.Exit(1)
	}

	scraper := hotelprice.New(cfg.Scraper, nil, logger)
	quotes, err := scraper.Scrape(ctx, hotels)
	if err != nil {
		logger.Error("Scrape aborted", slog.Any("error", err))
		os.Exit(1)
	}

	f, err := os.Create(cfg.Scraper.Output)
	if err != nil {
		logger.Error("Failed to create output file", slog.String("path", cfg.Scraper.Output), slog.Any("error", err))
		os.Exit(1)
	}
	if err := hotelprice.WriteCSV(f, quotes); err != nil {
		_ = f.Close()
		logger.Error("Failed to write prices", slog.Any("error", err))
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		logger.Error("Failed to close output file", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Hotel prices written",
		slog.String("path", cfg.Scraper.Output),
		slog.Int("requested", len(hotels)),
		slog.Int("written", len(quotes)))
}
