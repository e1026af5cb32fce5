package intake

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/classify"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/llm"
	"github.com/easymigrate/docintake/internal/parse"
)

// Config holds processor tuning.
type Config struct {
	PassportVariant parse.PassportVariant
	LLMTimeout      time.Duration // budget per extraction call, default 120s
	Parallelism     int           // concurrent document pipelines, default 2
}

// Processor coordinates classification, the per-document extraction
// pipelines, and requirement resolution for one session.
type Processor struct {
	logger      *slog.Logger
	classifier  *classify.Classifier
	recognizer  TextRecognizer
	extractor   llm.FieldExtractor
	variant     parse.PassportVariant
	llmTimeout  time.Duration
	parallelism int
}

func NewProcessor(logger *slog.Logger, recognizer TextRecognizer, extractor llm.FieldExtractor, cfg Config) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PassportVariant.Name == "" {
		cfg.PassportVariant = parse.VariantUzbek
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 2
	}
	return &Processor{
		logger:      logger,
		classifier:  classify.New(logger),
		recognizer:  recognizer,
		extractor:   extractor,
		variant:     cfg.PassportVariant,
		llmTimeout:  cfg.LLMTimeout,
		parallelism: cfg.Parallelism,
	}
}

// Report is the outcome of processing a session's uploads: per-type
// pipeline results plus the resolved missing-field queue.
type Report struct {
	Results    []DocResult
	Missing    []entity.MissingFieldRef
	NeedsInput bool
	// FirstPrompt is the manual-entry prompt for the queue head, set
	// when NeedsInput.
	FirstPrompt string
}

// Process classifies the session's documents, runs the extraction
// pipeline for every claimed document, and resolves the missing-field
// queue. Pipelines for independent documents run concurrently; results
// and queue order stay deterministic (classifier priority order).
// Pipeline failures are recorded in the report, never returned as
// errors; only context cancellation aborts.
func (p *Processor) Process(ctx context.Context, s *entity.Session) (*Report, error) {
	s.Phase = constants.PhaseProcessing
	active := constants.ActiveDocTypes(s.Service)
	assignment := p.classifier.Classify(s.Service, s.Documents)

	results := make([]DocResult, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for i, dt := range active {
		results[i] = DocResult{DocType: dt, Fields: entity.FieldSet{}}
		idx, claimed := assignment[dt]
		if !claimed {
			continue
		}
		results[i].Claimed = true
		doc := s.Documents[idx]
		slot := &results[i]
		g.Go(func() error {
			fields, failure := p.runPipeline(gctx, slot.DocType, doc)
			slot.Fields = fields
			slot.Failure = failure
			if failure != nil {
				p.logger.Error("pipeline.document_failed",
					"session_id", s.ID,
					"doc_type", slot.DocType,
					"stage", failure.Stage,
					"error", failure.Err,
				)
			} else {
				p.logger.Info("pipeline.document_ok",
					"session_id", s.ID,
					"doc_type", slot.DocType,
					"fields", len(fields),
				)
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	queue := NewMissingQueue()
	for _, r := range results {
		s.Fields[r.DocType] = r.Fields
		for _, field := range RequiredFields(s.Service, r.DocType) {
			if !r.Fields.Has(field) {
				queue.Push(entity.MissingFieldRef{DocType: r.DocType, Field: field})
			}
		}
	}

	s.Missing = queue.Refs()
	report := &Report{Results: results, Missing: s.Missing}
	if head, ok := queue.Peek(); ok {
		s.Phase = constants.PhaseManualInput
		report.NeedsInput = true
		report.FirstPrompt = FieldDescription(head.DocType, head.Field)
	} else {
		s.Phase = constants.PhaseFinalizing
	}

	p.logger.Info("pipeline.session_processed",
		"session_id", s.ID,
		"service", s.Service,
		"documents", len(s.Documents),
		"missing_fields", len(s.Missing),
	)
	return report, nil
}
