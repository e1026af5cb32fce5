package llm

import (
	"context"
	"strings"

	"github.com/easymigrate/docintake/constants"
)

// ExtractRequest carries recognized document text plus the type-specific
// prompt into the field-extraction model.
type ExtractRequest struct {
	RawText string
	DocType constants.DocumentType
	Prompt  string // optional override; defaults to PromptFor(DocType)
}

// FieldExtractor is the interface the intake pipeline depends on. The
// reply is a "label: value" block; transport failures surface as errors,
// provider-side failures as a reply carrying ErrorMarker.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (string, error)
}

// ErrorMarker is the explicit failure prefix a collaborator emits when it
// cannot raise across its boundary. A reply containing it is treated as a
// pipeline failure for the current document.
const ErrorMarker = "Ошибка при обработке документа"

// IsErrorReply reports whether a model reply is the explicit error string
// rather than extracted fields.
func IsErrorReply(reply string) bool {
	return strings.Contains(reply, ErrorMarker)
}
