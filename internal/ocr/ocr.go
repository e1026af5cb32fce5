package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "rus+eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
}

// PageRange selects which pages of a multi-page document to rasterize.
// Zero values mean "from the first page" / "to the last page".
type PageRange struct {
	First int
	Last  int
}

// All covers every page of the document.
var All = PageRange{}

// FirstPage covers only page 1.
var FirstPage = PageRange{First: 1, Last: 1}

// FirstTwoPages covers pages 1-2 (both sides of a patent card).
var FirstTwoPages = PageRange{First: 1, Last: 2}

// Result is the outcome of text recognition for one document.
type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE
	Duration   time.Duration
	Warnings   []string
}

// Extractor recognizes text from uploaded document bytes: PDFs are
// rasterized page by page with pdftoppm, then each page (or a plain image
// upload) goes through tesseract. Page texts are joined with a blank line.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "rus+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// ExtractText picks a strategy based on the declared MIME type. An empty
// or whitespace-only result is returned as-is; the caller decides whether
// that is a failure.
func (e *Extractor) ExtractText(ctx context.Context, doc entity.UploadedDocument, pages PageRange) (Result, error) {
	start := time.Now()
	format := constants.MapMIMEToFormat(doc.MIME)
	if format == "" {
		format = constants.MapExtToFormat(filepath.Ext(doc.Name))
	}
	e.logger.Debug("ocr.start", "name", doc.Name, "mime", doc.MIME, "format", format, "bytes", len(doc.Content))

	switch format {
	case constants.PDF:
		res, err := e.extractPDF(ctx, doc.Content, pages)
		res.Duration = time.Since(start)
		return res, err
	case constants.IMAGE:
		res, err := e.extractImage(ctx, doc.Content, filepath.Ext(doc.Name))
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("ocr.unsupported_format", "name", doc.Name, "mime", doc.MIME)
		return Result{}, fmt.Errorf("unsupported document format: %q (%s)", doc.MIME, doc.Name)
	}
}

// extractPDF rasterizes the selected page range and OCRs each page.
func (e *Extractor) extractPDF(ctx context.Context, content []byte, pages PageRange) (Result, error) {
	tmpDir, err := os.MkdirTemp("", "intake-pp-*")
	if err != nil {
		return Result{SourceType: constants.PDF}, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("ocr.tmpdir_cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	in := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(in, content, 0o600); err != nil {
		return Result{SourceType: constants.PDF}, err
	}

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", fmt.Sprintf("%d", e.cfg.DPI), "-png"}
	if pages.First > 0 {
		args = append(args, "-f", fmt.Sprintf("%d", pages.First))
	}
	if pages.Last > 0 {
		args = append(args, "-l", fmt.Sprintf("%d", pages.Last))
	}
	args = append(args, in, prefix)

	// pdftoppm -r 300 -png [-f N -l M] in.pdf <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...)
	if err != nil {
		return Result{SourceType: constants.PDF, Warnings: []string{string(errb)}}, fmt.Errorf("pdftoppm: %w", err)
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return Result{SourceType: constants.PDF}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, w, ocrErr := e.tesseractOCR(ctx, img)
		warns = append(warns, w...)
		if ocrErr != nil {
			warns = append(warns, ocrErr.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(txt)
	}

	return Result{
		Text:       Normalize(b.String()),
		Pages:      len(matches),
		SourceType: constants.PDF,
		Warnings:   warns,
	}, nil
}

// extractImage OCRs a single raster upload.
func (e *Extractor) extractImage(ctx context.Context, content []byte, ext string) (Result, error) {
	if ext == "" {
		ext = ".png"
	}
	tmp, err := os.CreateTemp("", "intake-img-*"+ext)
	if err != nil {
		return Result{SourceType: constants.IMAGE}, err
	}
	path := tmp.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			e.logger.Warn("ocr.tmpfile_cleanup_failed", "path", path, "error", rmErr)
		}
	}()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return Result{SourceType: constants.IMAGE}, err
	}
	if err := tmp.Close(); err != nil {
		return Result{SourceType: constants.IMAGE}, err
	}

	txt, warns, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Warnings: warns}, err
	}
	return Result{
		Text:       Normalize(txt),
		Pages:      1,
		SourceType: constants.IMAGE,
		Warnings:   warns,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}
