// Package parse turns "label: value" extraction replies into typed field
// sets, applying per-document normalization rules.
package parse

import (
	"strings"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

// Parser converts one extraction reply into a FieldSet.
type Parser func(text string) entity.FieldSet

// ParserFor dispatches to the type-specific parser. The passport parser
// is built against the given variant; other types ignore it.
func ParserFor(dt constants.DocumentType, variant PassportVariant) Parser {
	switch dt {
	case constants.DocPassport:
		return PassportParser(variant)
	case constants.DocMigration:
		return MigrationFields
	case constants.DocPatent:
		return PatentFields
	case constants.DocDMS:
		return DMSFields
	case constants.DocContract:
		return ContractFields
	default:
		return func(string) entity.FieldSet { return entity.FieldSet{} }
	}
}

// eachLabelLine walks the reply line by line and yields trimmed
// (label, value) pairs for every line containing a colon.
func eachLabelLine(text string, fn func(label, value string)) {
	for _, line := range strings.Split(text, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fn(strings.TrimSpace(label), strings.TrimSpace(value))
	}
}

// set stores a field unless the value is empty or a "not found" sentinel;
// sentinels normalize to absence.
func set(fs entity.FieldSet, name, value string) {
	if constants.IsNotFound(value) {
		return
	}
	fs[name] = value
}

// onlyDigits keeps the decimal digits of s.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// onlyLetters keeps the letters of s (any script).
func onlyLetters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё'
}

// SplitBlankCode splits a composite blank code like "ПР4744675" into an
// upper-cased letters-only series and a digits-only number.
func SplitBlankCode(blank string) (series, number string) {
	return strings.ToUpper(onlyLetters(blank)), onlyDigits(blank)
}
