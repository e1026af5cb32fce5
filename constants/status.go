package constants

// SessionPhase is the canonical phase of an intake session.
type SessionPhase string

// Stable values (reported over the dialogue boundary).
const (
	PhaseCollecting  SessionPhase = "COLLECTING"   // accepting uploads
	PhaseProcessing  SessionPhase = "PROCESSING"   // pipelines running
	PhaseManualInput SessionPhase = "MANUAL_INPUT" // draining the missing-field queue
	PhaseFinalizing  SessionPhase = "FINALIZING"   // merge + filter + save + render
	PhaseCompleted   SessionPhase = "COMPLETED"    // record persisted
	PhaseFailed      SessionPhase = "FAILED"       // terminal failure (persistence)
	PhaseCancelled   SessionPhase = "CANCELLED"    // explicit user cancel
)

// PipelineStage names the discrete stages of one document's extraction
// pipeline; failures carry the stage they occurred in. Rasterization and
// recognition fail as one OCR stage, and parsing is total, so only the
// OCR and extraction stages ever appear in failures.
type PipelineStage string

const (
	StageOCR     PipelineStage = "OCR"
	StageExtract PipelineStage = "EXTRACT"
)
