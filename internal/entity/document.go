package entity

import (
	"github.com/easymigrate/docintake/constants"
)

// UploadedDocument is one file attached by the user during a session.
// Immutable once stored; discarded with the session.
type UploadedDocument struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	Content []byte `json:"-"`
}

// FieldSet is the structured result of extracting one document: canonical
// field name -> string value. At most one FieldSet per document type per
// session (first claimed document wins).
type FieldSet map[string]string

// Get returns the trimmed value for a field, "" when absent.
func (fs FieldSet) Get(name string) string {
	if fs == nil {
		return ""
	}
	return fs[name]
}

// Has reports whether the field is present with a usable value, i.e. not
// empty and not a "not found" sentinel.
func (fs FieldSet) Has(name string) bool {
	return !constants.IsNotFound(fs.Get(name))
}

// MissingFieldRef is a pending (document type, field name) pair awaiting
// manual input.
type MissingFieldRef struct {
	DocType constants.DocumentType `json:"doc_type"`
	Field   string                 `json:"field"`
}
