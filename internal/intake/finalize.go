package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/merge"
)

// Store persists a finished record into a destination table.
type Store interface {
	SaveRecord(ctx context.Context, table string, rec entity.CanonicalRecord) error
}

// RecordValidator checks a filtered record against the table schema.
// Validation failures are reported but do not block persistence.
type RecordValidator interface {
	Validate(table string, rec entity.CanonicalRecord) error
}

// Renderer produces an output document from the finished record. A
// renderer that does not apply to the session's service returns a zero
// Artifact and nil error.
type Renderer interface {
	Render(ctx context.Context, s *entity.Session, rec entity.CanonicalRecord) (entity.Artifact, error)
}

// Finalizer merges, filters, persists, and renders a session once manual
// input (if any) has drained.
type Finalizer struct {
	logger    *slog.Logger
	merger    *merge.Merger
	filter    *merge.SchemaFilter
	validator RecordValidator
	store     Store
	renderers []Renderer
}

func NewFinalizer(logger *slog.Logger, validator RecordValidator, store Store, renderers ...Renderer) *Finalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finalizer{
		logger:    logger,
		merger:    merge.NewMerger(logger),
		filter:    merge.NewSchemaFilter(logger),
		validator: validator,
		store:     store,
		renderers: renderers,
	}
}

// Outcome carries the persisted record and whatever rendering produced.
// RenderErrs lines up with the artifacts that failed; a render failure
// never fails the session.
type Outcome struct {
	Record    entity.CanonicalRecord
	Artifacts []entity.Artifact
}

// Finalize runs the closing sequence. A storage error is fatal and moves
// the session to the failed phase; everything downstream of a successful
// save is best effort.
func (f *Finalizer) Finalize(ctx context.Context, s *entity.Session) (*Outcome, error) {
	s.Phase = constants.PhaseFinalizing
	log := f.logger.With("session_id", s.ID.String(), "service", string(s.Service))
	log.Info("finalize.start")

	full := f.merger.Merge(s)

	// Passport translation never reaches a table; it exists to produce
	// the translation sheet.
	if s.Service == constants.SvcPassportTranslation {
		out := &Outcome{Record: full}
		f.render(ctx, s, full, out, log)
		s.Phase = constants.PhaseCompleted
		log.Info("finalize.done", "persisted", false, "artifacts", len(out.Artifacts))
		return out, nil
	}

	table := constants.TableFor(s.Service)
	rec := f.filter.ForService(s.Service, full)

	if f.validator != nil {
		if err := f.validator.Validate(table, rec); err != nil {
			log.Warn("finalize.validate.failed", "table", table, "error", err)
		}
	}

	if f.store != nil {
		if err := f.store.SaveRecord(ctx, table, rec); err != nil {
			s.Phase = constants.PhaseFailed
			log.Error("finalize.save.failed", "table", table, "error", err)
			return nil, common.NewAppError("STORAGE", fmt.Sprintf("save record to %s", table), err)
		}
		log.Info("finalize.saved", "table", table, "fields", len(rec))
	}

	out := &Outcome{Record: rec}
	f.render(ctx, s, rec, out, log)

	s.Phase = constants.PhaseCompleted
	log.Info("finalize.done", "persisted", f.store != nil, "artifacts", len(out.Artifacts))
	return out, nil
}

func (f *Finalizer) render(ctx context.Context, s *entity.Session, rec entity.CanonicalRecord, out *Outcome, log *slog.Logger) {
	for _, r := range f.renderers {
		art, err := r.Render(ctx, s, rec)
		if err != nil {
			log.Warn("finalize.render.failed", "error", err)
			continue
		}
		if art.Name == "" {
			continue
		}
		out.Artifacts = append(out.Artifacts, art)
	}
}
