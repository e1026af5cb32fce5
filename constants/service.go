package constants

// ServiceType identifies the migration service a session is collecting
// documents for. It selects required documents/fields and the destination
// table schema.
type ServiceType string

const (
	SvcRegistration        ServiceType = "Постановка на учет"
	SvcContractConclusion  ServiceType = "Заключение трудового договора"
	SvcContractTermination ServiceType = "Расторжение трудового договора"
	SvcDeregistration      ServiceType = "Снятие с учета"
	SvcWorkerNotification  ServiceType = "Уведомление от работника иностранного гражданина"
	SvcPassportTranslation ServiceType = "Перевод паспорта"
)

// Services lists all offered services in menu order.
var Services = []ServiceType{
	SvcRegistration,
	SvcContractConclusion,
	SvcContractTermination,
	SvcDeregistration,
	SvcWorkerNotification,
	SvcPassportTranslation,
}

// Valid reports whether s is one of the offered services.
func (s ServiceType) Valid() bool {
	for _, v := range Services {
		if v == s {
			return true
		}
	}
	return false
}

// ActiveDocTypes returns the document types the classifier considers for
// a service, in classification priority order. The worker notification
// replaces the migration card with DMS and labor contract; passport
// translation consumes the passport alone.
func ActiveDocTypes(s ServiceType) []DocumentType {
	switch s {
	case SvcWorkerNotification:
		return []DocumentType{DocPassport, DocPatent, DocDMS, DocContract}
	case SvcPassportTranslation:
		return []DocumentType{DocPassport}
	default:
		return []DocumentType{DocPassport, DocMigration, DocPatent}
	}
}

// Destination tables per service family.
const (
	TableApplications  = "passport_applications"
	TableNotifications = "notifications"
)

// TableFor maps a service to its destination table.
func TableFor(s ServiceType) string {
	if s == SvcWorkerNotification {
		return TableNotifications
	}
	return TableApplications
}
