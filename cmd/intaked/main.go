package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/export"
	"github.com/easymigrate/docintake/internal/intake"
	"github.com/easymigrate/docintake/internal/llm/openai"
	"github.com/easymigrate/docintake/internal/ocr"
	"github.com/easymigrate/docintake/internal/server"
	"github.com/easymigrate/docintake/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Primary Postgres when a DSN is configured, embedded SQLite otherwise.
	var store intake.Store
	if cfg.Database.DSN != "" {
		pg, err := storage.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
	} else {
		lite, err := storage.NewSQLite(ctx, cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Error("open sqlite", "error", err)
			os.Exit(1)
		}
		defer lite.Close()
		store = lite
	}

	recognizer := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
	}, logger)

	extractor := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	processor := intake.NewProcessor(logger, recognizer, extractor, intake.Config{
		LLMTimeout: cfg.LLM.Timeout,
	})
	finalizer := intake.NewFinalizer(logger,
		storage.NewSchemaValidator(logger),
		store,
		export.NewApplicationSheet(logger),
		export.NewPassportTranslation(logger),
	)

	api := server.New(logger, processor, finalizer)
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: api.Handler(),
	}

	go func() {
		logger.Info("http.listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
