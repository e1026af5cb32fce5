package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/llm"
	"github.com/easymigrate/docintake/internal/ocr"
	"github.com/easymigrate/docintake/internal/parse"
)

// TextRecognizer is the OCR collaborator boundary (rasterize + recognize).
type TextRecognizer interface {
	ExtractText(ctx context.Context, doc entity.UploadedDocument, pages ocr.PageRange) (ocr.Result, error)
}

// StageError scopes a failure to the pipeline stage it occurred in. It
// aborts only the current document; the engine falls through to manual
// entry for that document's required fields.
type StageError struct {
	Stage constants.PipelineStage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// DocResult is the outcome of one document type's pipeline run.
type DocResult struct {
	DocType constants.DocumentType
	Claimed bool
	Fields  entity.FieldSet
	Failure *StageError
}

// pageRangeFor selects the rasterization subset per document type:
// single-sided documents take the first page, the patent takes both
// sides, the contract is read whole.
func pageRangeFor(dt constants.DocumentType) ocr.PageRange {
	switch dt {
	case constants.DocPatent:
		return ocr.FirstTwoPages
	case constants.DocContract:
		return ocr.All
	default:
		return ocr.FirstPage
	}
}

// runPipeline executes rasterize → OCR → LLM extraction → parse for one
// claimed document. Whatever the parser extracted before a failure point
// is returned alongside the stage error.
func (p *Processor) runPipeline(ctx context.Context, dt constants.DocumentType, doc entity.UploadedDocument) (entity.FieldSet, *StageError) {
	res, err := p.recognizer.ExtractText(ctx, doc, pageRangeFor(dt))
	if err != nil {
		return entity.FieldSet{}, &StageError{Stage: constants.StageOCR, Err: err}
	}
	if strings.TrimSpace(res.Text) == "" {
		return entity.FieldSet{}, &StageError{Stage: constants.StageOCR, Err: fmt.Errorf("no text recognized")}
	}

	llmCtx, cancel := common.WithTimeout(ctx, p.llmTimeout)
	defer cancel()
	reply, err := p.extractor.ExtractFields(llmCtx, llm.ExtractRequest{
		RawText: res.Text,
		DocType: dt,
	})
	if err != nil {
		return entity.FieldSet{}, &StageError{Stage: constants.StageExtract, Err: err}
	}
	if llm.IsErrorReply(reply) {
		return entity.FieldSet{}, &StageError{Stage: constants.StageExtract, Err: fmt.Errorf("extraction model reported failure: %s", reply)}
	}

	fields := parse.ParserFor(dt, p.variant)(reply)
	return fields, nil
}
