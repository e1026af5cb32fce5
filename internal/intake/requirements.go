package intake

import (
	"github.com/easymigrate/docintake/constants"
)

// Mandatory field lists per document type. The patent list varies by
// service: the worker notification needs the employee tax id, every other
// service needs the blank code instead. The passport translation is the
// one flow that takes the name from the passport itself.
var (
	passportRequired    = []string{"birthdate", "passport_number"}
	translationRequired = []string{"fio", "birthdate", "passport_number"}
	migrationRequired   = []string{"migration_card_number", "migration_card_date"}
	patentRequired      = []string{"fio", "patent_number", "patent_date", "patent_blank"}
	patentNotifRequired = []string{"fio", "patent_number", "patent_date", "inn"}
	dmsRequired         = []string{"dms_number", "insurance_expiry", "insurance_date"}
	contractRequired    = []string{"position", "contract_date"}
)

// RequiredFields is a pure function of service and document type: the
// ordered mandatory field names whose absence triggers manual entry.
// Returns a fresh slice so callers may not mutate the tables.
func RequiredFields(service constants.ServiceType, dt constants.DocumentType) []string {
	var src []string
	switch dt {
	case constants.DocPassport:
		if service == constants.SvcPassportTranslation {
			src = translationRequired
		} else {
			src = passportRequired
		}
	case constants.DocMigration:
		src = migrationRequired
	case constants.DocPatent:
		if service == constants.SvcWorkerNotification {
			src = patentNotifRequired
		} else {
			src = patentRequired
		}
	case constants.DocDMS:
		src = dmsRequired
	case constants.DocContract:
		src = contractRequired
	default:
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
