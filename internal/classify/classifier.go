package classify

import (
	"log/slog"
	"strings"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

// Assignment maps a document type to the index of the uploaded document
// claimed for it. Types with no match are absent from the map.
type Assignment map[constants.DocumentType]int

// Classifier assigns uploaded documents to document types by filename
// keywords. Matching is case-insensitive substring search, first match in
// upload order wins, and a document is claimed by at most one type.
type Classifier struct {
	keywords map[constants.DocumentType][]string
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{keywords: constants.DocKeywords, logger: logger}
}

// Classify scans the active document types for the service in priority
// order and claims the first unclaimed document matching each type's
// keyword list.
func (c *Classifier) Classify(service constants.ServiceType, docs []entity.UploadedDocument) Assignment {
	active := constants.ActiveDocTypes(service)
	claimed := make(map[int]struct{}, len(docs))
	out := make(Assignment, len(active))

	for _, dt := range active {
		kws := c.keywords[dt]
		for i, doc := range docs {
			if _, taken := claimed[i]; taken {
				continue
			}
			if !matchesAny(doc.Name, kws) {
				continue
			}
			out[dt] = i
			claimed[i] = struct{}{}
			c.logger.Debug("classify.claimed", "doc_type", dt, "index", i, "name", doc.Name)
			break
		}
		if _, ok := out[dt]; !ok {
			c.logger.Info("classify.no_match", "doc_type", dt, "documents", len(docs))
		}
	}
	return out
}

func matchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
