package parse

import (
	"regexp"
	"strings"

	"github.com/easymigrate/docintake/internal/entity"
)

// FallbackInsurer substitutes for the provider name when extraction put
// contact data there and no usable name remains.
const FallbackInsurer = "АЛЬФАСТРАХОВАНИЕ"

// Typical phone shapes: +7..., 8..., (XXX)..., XX-XX-XX.
var rePhoneShape = regexp.MustCompile(`^\+?\d[\d\-\(\) ]{5,20}$`)

// DMSFields parses a medical-insurance policy extraction reply. The
// insurer free text is sanity-checked: an email lands in the
// insurance_expiry slot (the notification form keeps the contact email
// there), a phone-shaped value lands in contact_phone, and the known
// insurer fallback fills in when no name is recoverable.
func DMSFields(text string) entity.FieldSet {
	res := entity.FieldSet{}
	eachLabelLine(text, func(label, value string) {
		switch {
		case strings.Contains(label, "Номер полиса"):
			set(res, "dms_number", value)
		case strings.Contains(label, "Страховая организация"):
			set(res, "insurance_company", value)
		case strings.Contains(label, "Дата выдачи"):
			set(res, "insurance_date", value)
		case strings.Contains(label, "Срок действия"):
			set(res, "insurance_expiry", value)
		}
	})
	rerouteInsurer(res)
	return res
}

// rerouteInsurer moves misplaced contact data out of insurance_company.
func rerouteInsurer(res entity.FieldSet) {
	company, ok := res["insurance_company"]
	if !ok {
		return
	}
	switch {
	case strings.Contains(company, "@"):
		if res.Get("insurance_expiry") == "" {
			res["insurance_expiry"] = company
		}
		res["insurance_company"] = FallbackInsurer
	case rePhoneShape.MatchString(company):
		res["contact_phone"] = company
		res["insurance_company"] = FallbackInsurer
	}
}
