// Package merge combines per-document field sets, manual entries, and
// session metadata into one canonical record, then narrows it to the
// destination table's columns.
package merge

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/parse"
	"github.com/easymigrate/docintake/internal/refdata"
)

// passportRenames translates passport extraction keys to destination
// column names. Renamed copies are added next to the originals; the
// schema filter keeps whichever the table knows.
var passportRenames = map[string]string{
	"authority":   "passport_issued_by",
	"nationality": "citizenship",
	"expiry_date": "passport_until",
}

// docMergeOrder fixes the precedence among document field sets: a later
// type overwrites an earlier one on key collision.
var docMergeOrder = []constants.DocumentType{
	constants.DocPassport,
	constants.DocMigration,
	constants.DocPatent,
	constants.DocDMS,
	constants.DocContract,
}

// Merger builds the canonical record for a finished session.
type Merger struct {
	logger *slog.Logger
}

func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// Merge applies the precedence session metadata < document fields <
// manual entries, then the derived steps: passport renames, the
// patent-only full name split, and the blank-code split. The session is
// not modified; the record is produced exactly once per session.
func (m *Merger) Merge(s *entity.Session) entity.CanonicalRecord {
	rec := entity.CanonicalRecord{
		"company_name":    s.Company.Name,
		"company_inn":     s.Company.INN,
		"service":         string(s.Service),
		"stage":           s.Stage,
		"city":            s.City,
		"company_address": s.Company.Address,
		"ogrn":            s.Company.OGRN,
		"kpp":             s.Company.KPP,
		"inn":             s.Company.INN, // item 11; a patent-extracted employee inn overrides
	}
	if s.Service == constants.SvcWorkerNotification {
		// Standard work address of the region office, keyed by the
		// session city. Document fields and manual entries override.
		rec["work_address"] = refdata.RegionForCity(s.City).WorkAddress
	}

	patentActive := false
	for _, dt := range constants.ActiveDocTypes(s.Service) {
		if dt == constants.DocPatent {
			patentActive = true
		}
	}

	for _, dt := range docMergeOrder {
		fields := s.Fields[dt]
		for field, value := range fields {
			if strings.TrimSpace(value) == "" {
				continue
			}
			// The full name comes from the patent whenever the service
			// collects one; the passport name is authoritative only in
			// patent-less flows (the passport translation).
			if dt == constants.DocPassport && field == "fio" && patentActive {
				continue
			}
			rec[field] = value
		}
	}

	// Renamed copies of the passport keys for the notification columns.
	if passport := s.Fields[constants.DocPassport]; passport != nil {
		for from, to := range passportRenames {
			if v := passport.Get(from); strings.TrimSpace(v) != "" {
				rec[to] = v
			}
		}
	}

	m.applyPatentName(s, rec)
	m.applyManual(s, rec)

	if v, ok := rec["fio"]; ok {
		rec["fio"] = strings.ToUpper(v)
	}
	if v, ok := rec["fio_latin"]; ok {
		rec["fio_latin"] = strings.ToUpper(v)
	}
	splitName(rec)
	reSplitBlank(rec)

	m.logger.Debug("merge.done",
		"session_id", s.ID,
		"service", s.Service,
		"fields", len(rec),
		"manual", len(s.Manual),
	)
	return rec
}

// applyPatentName takes the full name from the patent field set only and
// splits it into lastname/firstname/middlename, the middle name
// absorbing any remainder tokens.
func (m *Merger) applyPatentName(s *entity.Session, rec entity.CanonicalRecord) {
	patent := s.Fields[constants.DocPatent]
	fio := strings.TrimSpace(patent.Get("fio"))
	if fio == "" {
		return
	}
	rec["fio"] = strings.ToUpper(fio)
}

// applyManual overlays manually entered values; they override every
// extracted source. References are ordered by document priority, then
// field name, so colliding field names across types resolve
// deterministically.
func (m *Merger) applyManual(s *entity.Session, rec entity.CanonicalRecord) {
	refs := make([]entity.MissingFieldRef, 0, len(s.Manual))
	for ref := range s.Manual {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].DocType != refs[j].DocType {
			return docPriority(refs[i].DocType) < docPriority(refs[j].DocType)
		}
		return refs[i].Field < refs[j].Field
	})
	for _, ref := range refs {
		value := strings.TrimSpace(s.Manual[ref])
		if value == "" {
			continue
		}
		rec[ref.Field] = value
	}
}

func docPriority(dt constants.DocumentType) int {
	for i, d := range constants.DocTypePriority {
		if d == dt {
			return i
		}
	}
	return len(constants.DocTypePriority)
}

// splitName splits rec["fio"] on whitespace into the three name columns.
func splitName(rec entity.CanonicalRecord) {
	fio := strings.TrimSpace(rec["fio"])
	if fio == "" {
		return
	}
	parts := strings.Fields(fio)
	rec["lastname"] = parts[0]
	if len(parts) > 1 {
		rec["firstname"] = parts[1]
	} else {
		rec["firstname"] = ""
	}
	if len(parts) > 2 {
		rec["middlename"] = strings.Join(parts[2:], " ")
	} else {
		rec["middlename"] = ""
	}
}

// reSplitBlank re-derives the blank-code split when a raw code is present
// and the split was not produced upstream.
func reSplitBlank(rec entity.CanonicalRecord) {
	blank := strings.TrimSpace(rec["patent_blank"])
	if blank == "" {
		return
	}
	if rec["patent_blank_series"] != "" && rec["patent_blank_number"] != "" {
		return
	}
	series, number := parse.SplitBlankCode(blank)
	rec["patent_blank_series"] = series
	rec["patent_blank_number"] = number
}
