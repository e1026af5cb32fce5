package merge

import (
	"log/slog"
	"sort"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

// Column allow-lists per destination table. Keys outside the list never
// reach the insert.
var tableColumns = map[string][]string{
	constants.TableApplications: {
		"company_name", "company_inn", "service", "stage",
		"fio", "birthdate", "birth_place", "sex",
		"passport_series", "passport_number", "doc_number",
		"issue_date", "passport_until", "issuer", "issuer_country",
		"migration_card_series", "migration_card_number",
		"migration_card_date", "migration_card_purpose",
		"patent_series", "patent_number", "patent_date", "patent_until",
		"patent_issuer", "patent_blank_series", "patent_blank_number",
		"status",
	},
	constants.TableNotifications: {
		"company_name", "company_inn", "service", "city",
		"company_address", "ogrn", "kpp", "inn",
		"lastname", "firstname", "middlename", "fio",
		"citizenship", "birthdate", "birth_place",
		"passport_series", "passport_number", "issue_date",
		"passport_issued_by",
		"patent_series", "patent_number", "patent_date",
		"position", "work_address", "contract_date",
		"insurance_company", "insurance_date", "insurance_expiry",
		"dms_number", "contact_phone", "contact_email",
	},
}

// TableColumns returns the allow-list for a table, nil when the table is
// unknown.
func TableColumns(table string) []string {
	cols := tableColumns[table]
	out := make([]string, len(cols))
	copy(out, cols)
	if len(out) == 0 {
		return nil
	}
	return out
}

// SchemaFilter narrows canonical records to a table's columns and logs
// what it throws away.
type SchemaFilter struct {
	logger *slog.Logger
}

func NewSchemaFilter(logger *slog.Logger) *SchemaFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemaFilter{logger: logger}
}

// ForService filters rec against the table serving the given service.
func (f *SchemaFilter) ForService(service constants.ServiceType, rec entity.CanonicalRecord) entity.CanonicalRecord {
	table := constants.TableFor(service)
	return f.Filter(table, tableColumns[table], rec)
}

// Filter keeps exactly the allowed keys of rec. Dropped keys are logged
// at WARN, sorted, so unexpected extraction output stays visible.
func (f *SchemaFilter) Filter(table string, allowed []string, rec entity.CanonicalRecord) entity.CanonicalRecord {
	allow := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		allow[k] = struct{}{}
	}

	out := make(entity.CanonicalRecord, len(rec))
	var dropped []string
	for k, v := range rec {
		if _, ok := allow[k]; ok {
			out[k] = v
			continue
		}
		dropped = append(dropped, k)
	}
	if len(dropped) > 0 {
		sort.Strings(dropped)
		f.logger.Warn("merge.filter.dropped",
			"table", table,
			"keys", dropped,
			"count", len(dropped),
		)
	}
	return out
}
