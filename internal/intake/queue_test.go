package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

func ref(dt constants.DocumentType, field string) entity.MissingFieldRef {
	return entity.MissingFieldRef{DocType: dt, Field: field}
}

func TestQueueFIFOAndDedup(t *testing.T) {
	q := NewMissingQueue()

	assert.True(t, q.Push(ref(constants.DocPatent, "fio")))
	assert.True(t, q.Push(ref(constants.DocPatent, "inn")))
	assert.False(t, q.Push(ref(constants.DocPatent, "fio")), "duplicate must be rejected")
	assert.Equal(t, 2, q.Len())

	head, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, ref(constants.DocPatent, "fio"), head, "duplicate keeps first position")

	head, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, ref(constants.DocPatent, "inn"), head)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestQueueSameFieldDifferentTypesAreDistinct(t *testing.T) {
	q := NewMissingQueue()
	assert.True(t, q.Push(ref(constants.DocPassport, "fio")))
	assert.True(t, q.Push(ref(constants.DocPatent, "fio")))
	assert.Equal(t, 2, q.Len())
}

func TestQueuePopReleasesDedup(t *testing.T) {
	q := NewMissingQueue()
	q.Push(ref(constants.DocDMS, "dms_number"))
	q.Pop()
	assert.True(t, q.Push(ref(constants.DocDMS, "dms_number")), "consumed ref may be queued again")
}

func TestRestoreQueueKeepsOrder(t *testing.T) {
	refs := []entity.MissingFieldRef{
		ref(constants.DocPatent, "patent_date"),
		ref(constants.DocPatent, "fio"),
		ref(constants.DocPatent, "patent_date"), // stray duplicate
	}
	q := RestoreQueue(refs)
	assert.Equal(t, []entity.MissingFieldRef{
		ref(constants.DocPatent, "patent_date"),
		ref(constants.DocPatent, "fio"),
	}, q.Refs())
}

func TestRequiredFieldsPerService(t *testing.T) {
	assert.Equal(t, []string{"birthdate", "passport_number"},
		RequiredFields(constants.SvcRegistration, constants.DocPassport))
	assert.Equal(t, []string{"fio", "birthdate", "passport_number"},
		RequiredFields(constants.SvcPassportTranslation, constants.DocPassport),
		"translation takes the name from the passport itself")

	assert.Equal(t, []string{"fio", "patent_number", "patent_date", "inn"},
		RequiredFields(constants.SvcWorkerNotification, constants.DocPatent))
	assert.Equal(t, []string{"fio", "patent_number", "patent_date", "patent_blank"},
		RequiredFields(constants.SvcRegistration, constants.DocPatent))

	assert.Equal(t, []string{"dms_number", "insurance_expiry", "insurance_date"},
		RequiredFields(constants.SvcWorkerNotification, constants.DocDMS))
	assert.Equal(t, []string{"position", "contract_date"},
		RequiredFields(constants.SvcWorkerNotification, constants.DocContract))
}

func TestRequiredFieldsReturnsCopy(t *testing.T) {
	a := RequiredFields(constants.SvcRegistration, constants.DocMigration)
	a[0] = "mutated"
	b := RequiredFields(constants.SvcRegistration, constants.DocMigration)
	assert.Equal(t, "migration_card_number", b[0])
}
