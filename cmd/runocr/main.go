// runocr recognizes one local file and prints the normalized text, for
// checking the pdftoppm/tesseract setup.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/ocr"
)

func main() {
	var (
		first = flag.Int("first", 0, "first page (0 = from start)")
		last  = flag.Int("last", 0, "last page (0 = to end)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runocr [-first N] [-last N] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		logger.Error("unsupported file extension", "ext", ext)
		os.Exit(2)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	extractor := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := extractor.ExtractText(ctx, entity.UploadedDocument{
		Name:    filepath.Base(path),
		Content: content,
	}, ocr.PageRange{First: *first, Last: *last})
	if err != nil {
		logger.Error("ocr failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ocr.done",
		"source_type", res.SourceType,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration", res.Duration,
		"warnings", res.Warnings,
	)
	fmt.Println(res.Text)
}
