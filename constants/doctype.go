package constants

// DocumentType is the canonical category for an uploaded scan.
type DocumentType string

// Stable values (store these exact strings in DB).
const (
	DocPassport  DocumentType = "passport"
	DocMigration DocumentType = "migration"
	DocPatent    DocumentType = "patent"
	DocDMS       DocumentType = "dms"
	DocContract  DocumentType = "contract"
)

// DocTypePriority is the classification scan order. A file whose name
// matches keywords of several types is claimed by the earliest type here.
var DocTypePriority = []DocumentType{
	DocPassport,
	DocMigration,
	DocPatent,
	DocDMS,
	DocContract,
}

// DocKeywords maps a document type to its filename keyword synonyms.
// Matching is case-insensitive substring search.
var DocKeywords = map[DocumentType][]string{
	DocPassport:  {"паспорт", "passport"},
	DocMigration: {"миграцион", "migration"},
	DocPatent:    {"патент", "patent"},
	DocDMS:       {"дмс", "страхов", "dms"},
	DocContract:  {"договор", "тд"},
}

// DocTitles are short human-readable names used in user-facing notices.
var DocTitles = map[DocumentType]string{
	DocPassport:  "паспорт",
	DocMigration: "миграционная карта",
	DocPatent:    "патент",
	DocDMS:       "полис ДМС",
	DocContract:  "трудовой договор",
}
