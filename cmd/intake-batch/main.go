// intake-batch runs one intake session from a directory of scans,
// prompting on the terminal for whatever the pipelines could not read.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/export"
	"github.com/easymigrate/docintake/internal/intake"
	"github.com/easymigrate/docintake/internal/llm/openai"
	"github.com/easymigrate/docintake/internal/ocr"
	"github.com/easymigrate/docintake/internal/refdata"
	"github.com/easymigrate/docintake/internal/storage"
)

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory with document scans (required)")
		inn     = flag.String("inn", "", "company tax id, 10 or 12 digits (required)")
		company = flag.String("company", "", "company name, required for unknown tax ids")
		service = flag.String("service", string(constants.SvcRegistration), "service name")
		stage   = flag.String("stage", "", "stage (Первичная / Продление)")
		city    = flag.String("city", "", "city for the worker notification")
		out     = flag.String("out", "", "output directory for artifacts (defaults to --dir)")
	)
	flag.Parse()

	if *dir == "" {
		fatalf("Error: --dir is required")
	}
	if !refdata.ValidINN(*inn) {
		fatalf("Error: --inn must be 10 or 12 digits")
	}
	svc := constants.ServiceType(*service)
	if !svc.Valid() {
		fatalf("Error: unknown service %q", *service)
	}
	if *out == "" {
		*out = *dir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		fatalf("Error: OPENAI_API_KEY is required")
	}
	ctx := context.Background()

	meta := entity.CompanyMeta{INN: *inn, Name: *company}
	if known, ok := refdata.CompanyByINN(*inn); ok {
		meta.Name = known.Name
		meta.Address = known.LegalAddress
		meta.OGRN = known.OGRN
		meta.KPP = known.KPP
	} else if meta.Name == "" {
		fatalf("Error: --company is required for unknown tax ids")
	}

	sess := entity.NewSession(svc, meta)
	sess.Stage = *stage
	sess.City = *city
	if err := attachDirectory(sess, *dir); err != nil {
		fatalf("Error: %v", err)
	}
	if len(sess.Documents) == 0 {
		fatalf("Error: no supported documents in %s", *dir)
	}
	fmt.Printf("Документов к обработке: %d\n", len(sess.Documents))

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
	report, err := processor.Process(ctx, sess)
	if err != nil {
		fatalf("Error: processing failed: %v", err)
	}

	if report.NeedsInput {
		drainManually(sess)
	}

	store, err := storage.NewSQLite(ctx, cfg.Database.SQLitePath, logger)
	if err != nil {
		fatalf("Error: open sqlite: %v", err)
	}
	defer store.Close()

	finalizer := intake.NewFinalizer(logger,
		storage.NewSchemaValidator(logger),
		store,
		export.NewApplicationSheet(logger),
		export.NewPassportTranslation(logger),
	)
	outcome, err := finalizer.Finalize(ctx, sess)
	if err != nil {
		fatalf("Error: finalize failed: %v", err)
	}

	for _, art := range outcome.Artifacts {
		path := filepath.Join(*out, art.Name)
		if err := os.WriteFile(path, art.Content, 0o644); err != nil {
			fatalf("Error: write %s: %v", path, err)
		}
		fmt.Printf("Сохранено: %s\n", path)
	}
	fmt.Printf("Готово: %d полей записано.\n", len(outcome.Record))
}

// attachDirectory loads every supported file of dir (non-recursive) into
// the session.
func attachDirectory(sess *entity.Session, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(e.Name()))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", e.Name(), err)
		}
		sess.Attach(entity.UploadedDocument{Name: e.Name(), Content: content})
	}
	return nil
}

// drainManually asks on the terminal for each queued field, in order.
func drainManually(sess *entity.Session) {
	coord := intake.NewManualCoordinator(sess)
	in := bufio.NewScanner(os.Stdin)
	for {
		prompt, ok := coord.NextPrompt()
		if !ok {
			return
		}
		fmt.Printf("Введите %s: ", prompt)
		if !in.Scan() {
			return
		}
		if coord.Record(in.Text()) {
			return
		}
	}
}
