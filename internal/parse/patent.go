package parse

import (
	"strings"
	"time"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

const dateLayout = "02.01.2006"

// PatentFields parses a work-patent extraction reply. The owner name is
// upper-cased, the blank code is split into series/number, and a
// parseable issue date derives a +365-day expiry; an unparseable date
// yields the explicit undetermined marker instead of failing.
func PatentFields(text string) entity.FieldSet {
	res := entity.FieldSet{}
	eachLabelLine(text, func(label, value string) {
		switch {
		case strings.Contains(label, "Серия патента"):
			set(res, "patent_series", strings.ToUpper(value))
		case strings.Contains(label, "Номер патента"):
			set(res, "patent_number", value)
		case strings.Contains(label, "Дата выдачи"):
			set(res, "patent_date", value)
		case strings.Contains(label, "Кем выдан"):
			set(res, "patent_issuer", value)
		case strings.Contains(label, "ФИО") && !strings.Contains(label, "латиницей"):
			set(res, "fio", strings.ToUpper(value))
		case strings.Contains(label, "Серия и номер бланка"):
			set(res, "patent_blank", strings.ToUpper(value))
		case strings.Contains(label, "ИНН"):
			set(res, "inn", value)
		}
	})

	if issued, ok := res["patent_date"]; ok {
		res["patent_until"] = DeriveExpiry(issued)
	}
	if blank, ok := res["patent_blank"]; ok {
		series, number := SplitBlankCode(blank)
		set(res, "patent_blank_series", series)
		set(res, "patent_blank_number", number)
	}
	return res
}

// DeriveExpiry computes the patent expiry date 365 days after a
// DD.MM.YYYY issue date. Unparseable input yields the undetermined
// marker, never an error.
func DeriveExpiry(issued string) string {
	t, err := time.Parse(dateLayout, strings.TrimSpace(issued))
	if err != nil {
		return constants.PatentExpiryUndetermined
	}
	return t.AddDate(0, 0, 365).Format(dateLayout)
}
