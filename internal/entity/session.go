package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/easymigrate/docintake/constants"
)

// CompanyMeta is the company/session metadata collected before documents.
type CompanyMeta struct {
	INN     string `json:"inn"`
	Name    string `json:"name"`
	Address string `json:"address"`
	OGRN    string `json:"ogrn"`
	KPP     string `json:"kpp"`
}

// Session is the aggregate root for one intake dialogue. It is owned by
// exactly one conversation and never touched from two goroutines at once.
type Session struct {
	ID      uuid.UUID              `json:"id"`
	Service constants.ServiceType  `json:"service"`
	Phase   constants.SessionPhase `json:"phase"`
	Company CompanyMeta            `json:"company"`
	Stage   string                 `json:"stage,omitempty"` // Первичная / Продление
	City    string                 `json:"city,omitempty"`  // worker notification only

	Documents []UploadedDocument `json:"documents"`

	// Extraction state, populated by the intake processor.
	Fields  map[constants.DocumentType]FieldSet `json:"fields"`
	Missing []MissingFieldRef                   `json:"missing"`
	Manual  map[MissingFieldRef]string          `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates an empty session in the collecting phase.
func NewSession(service constants.ServiceType, company CompanyMeta) *Session {
	return &Session{
		ID:        uuid.New(),
		Service:   service,
		Phase:     constants.PhaseCollecting,
		Company:   company,
		Fields:    make(map[constants.DocumentType]FieldSet),
		Manual:    make(map[MissingFieldRef]string),
		CreatedAt: time.Now().UTC(),
	}
}

// Attach stores an uploaded document on the session.
func (s *Session) Attach(doc UploadedDocument) {
	s.Documents = append(s.Documents, doc)
}

// Reset clears all extraction state and uploads, keeping service and
// company metadata. Safe to call from any phase.
func (s *Session) Reset() {
	s.Documents = nil
	s.Fields = make(map[constants.DocumentType]FieldSet)
	s.Missing = nil
	s.Manual = make(map[MissingFieldRef]string)
	s.Phase = constants.PhaseCollecting
}
