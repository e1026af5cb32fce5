// dbhealth checks that the configured record store is reachable and has
// the destination tables.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.Database.DSN != "" {
		pg, err := storage.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("postgres health failed", "error", err)
			os.Exit(1)
		}
		pg.Close()
		logger.Info("postgres health OK")
		return
	}

	lite, err := storage.NewSQLite(ctx, cfg.Database.SQLitePath, logger)
	if err != nil {
		logger.Error("sqlite health failed", "error", err)
		os.Exit(1)
	}
	if err := lite.Close(); err != nil {
		logger.Error("sqlite close failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sqlite health OK", "path", cfg.Database.SQLitePath)
}
