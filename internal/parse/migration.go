package parse

import (
	"strings"

	"github.com/easymigrate/docintake/internal/entity"
)

// MigrationFields parses a migration-card extraction reply.
func MigrationFields(text string) entity.FieldSet {
	res := entity.FieldSet{}
	eachLabelLine(text, func(label, value string) {
		switch {
		case strings.Contains(label, "Серия карты"):
			set(res, "migration_card_series", value)
		case strings.Contains(label, "Номер карты"):
			set(res, "migration_card_number", value)
		case strings.Contains(label, "Дата выдачи"):
			set(res, "migration_card_date", value)
		case strings.Contains(label, "Цель визита"):
			set(res, "migration_card_purpose", value)
		}
	})
	return res
}
