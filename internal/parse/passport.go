package parse

import (
	"strings"

	"github.com/easymigrate/docintake/internal/entity"
)

// PassportVariant declares nationality-specific parsing rules. The
// variant is configured per deployment rather than sniffed from the raw
// OCR text, so recognition noise cannot flip the parsing mode.
type PassportVariant struct {
	Name string

	// SuppressSeries drops the "Серия" label: these passports carry a
	// single document number instead of a series/number pair.
	SuppressSeries bool

	// AltNumberLabel, when non-empty, routes a "Номер (<marker>)" label
	// containing this substring to doc_number.
	AltNumberLabel string

	// Citizenship, when non-empty, overrides whatever the "Страна" label
	// carries with the canonical country name.
	Citizenship string
}

// VariantUzbek is the default variant.
var VariantUzbek = PassportVariant{
	Name:        "uzbek",
	Citizenship: "УЗБЕКИСТАН",
}

// VariantTajik suppresses the series field and treats the marked number
// label as the document number.
var VariantTajik = PassportVariant{
	Name:           "tajik",
	SuppressSeries: true,
	AltNumberLabel: "таджик",
	Citizenship:    "ТАДЖИКИСТАН",
}

// PassportParser builds the passport field parser for a variant.
// Identity strings are upper-cased; the issuing authority collapses to
// "МВД <digits>"; sex letters map to the Russian words.
func PassportParser(v PassportVariant) Parser {
	return func(text string) entity.FieldSet {
		res := entity.FieldSet{}
		eachLabelLine(text, func(label, value string) {
			switch {
			case strings.Contains(label, "ФИО (латиницей"):
				set(res, "fio_latin", strings.ToUpper(value))
			case label == "ФИО":
				set(res, "fio", strings.ToUpper(value))
			case strings.Contains(label, "Дата рождения"):
				set(res, "birthdate", value)
			case strings.Contains(label, "Место рождения"):
				set(res, "birth_place", normalizeBirthPlace(value))
			case strings.Contains(label, "Пол"):
				set(res, "sex", normalizeSex(value))
			case label == "Серия":
				if !v.SuppressSeries {
					set(res, "passport_series", strings.ToUpper(value))
				}
			case v.AltNumberLabel != "" && strings.Contains(strings.ToLower(label), v.AltNumberLabel):
				set(res, "doc_number", strings.ToUpper(value))
			case strings.HasPrefix(label, "Номер"):
				set(res, "passport_number", strings.ToUpper(value))
			case strings.Contains(label, "Дата выдачи"):
				set(res, "issue_date", value)
			case strings.Contains(label, "Срок действия"):
				set(res, "expiry_date", value)
			case strings.Contains(label, "Кем выдан"):
				set(res, "authority", normalizeAuthority(value))
			case strings.Contains(label, "Страна"):
				if v.Citizenship != "" {
					set(res, "nationality", v.Citizenship)
				} else {
					set(res, "nationality", strings.ToUpper(value))
				}
			case strings.Contains(label, "МРЗ"):
				set(res, "mrz", strings.ToUpper(value))
			}
		})
		return res
	}
}

// normalizeBirthPlace upper-cases the value and canonicalizes the Fergana
// region spelling seen in latin-script passports.
func normalizeBirthPlace(v string) string {
	up := strings.ToUpper(v)
	if strings.Contains(up, "FERGANA") {
		return "ФЕРГАНСКАЯ ОБЛАСТЬ"
	}
	return up
}

func normalizeSex(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "M":
		return "МУЖСКОЙ"
	case "F":
		return "ЖЕНСКИЙ"
	default:
		return strings.ToUpper(v)
	}
}

// normalizeAuthority reduces the issuing-authority free text to the
// ministry code: "МВД <digits>", or bare "МВД" when no digits survive.
func normalizeAuthority(v string) string {
	num := onlyDigits(v)
	if num == "" {
		return "МВД"
	}
	return "МВД " + num
}
