package parse

import (
	"strings"

	"github.com/easymigrate/docintake/internal/entity"
)

// ContractFields parses a labor-contract extraction reply.
func ContractFields(text string) entity.FieldSet {
	res := entity.FieldSet{}
	eachLabelLine(text, func(label, value string) {
		switch {
		case strings.Contains(label, "Номер договора"):
			set(res, "contract_number", value)
		case strings.Contains(label, "Дата договора"):
			set(res, "contract_date", value)
		case strings.Contains(label, "Должность"):
			set(res, "position", value)
		}
	})
	return res
}
