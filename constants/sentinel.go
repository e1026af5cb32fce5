package constants

import "strings"

// notFoundSentinels are placeholder replies the extraction model emits for
// fields it could not locate. They are equivalent to absence.
var notFoundSentinels = map[string]struct{}{
	"не найдено": {},
	"не найден":  {},
	"не указано": {},
	"нет":        {},
	"n/a":        {},
	"none":       {},
	"null":       {},
	"-":          {},
	"—":          {},
}

// IsNotFound reports whether v is empty or a recognized "not found"
// sentinel. Comparison is case-insensitive on the trimmed value.
func IsNotFound(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return true
	}
	_, ok := notFoundSentinels[v]
	return ok
}

// PatentExpiryUndetermined is stored when the patent issue date cannot be
// parsed and the +365-day expiry cannot be derived.
const PatentExpiryUndetermined = "Не определено"
