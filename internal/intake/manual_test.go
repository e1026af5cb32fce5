package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

func TestManualCoordinatorDrainsQueueInOrder(t *testing.T) {
	s := entity.NewSession(constants.SvcWorkerNotification, entity.CompanyMeta{})
	s.Missing = []entity.MissingFieldRef{
		ref(constants.DocPatent, "fio"),
		ref(constants.DocPatent, "inn"),
	}

	c := NewManualCoordinator(s)
	assert.Equal(t, ManualRequesting, c.State())

	prompt, ok := c.NextPrompt()
	assert.True(t, ok)
	assert.Equal(t, "ФИО владельца (русскими буквами)", prompt)
	assert.Equal(t, ManualAwaiting, c.State())

	done := c.Record("  Алиев Вали  ")
	assert.False(t, done)
	assert.Equal(t, "Алиев Вали", s.Manual[ref(constants.DocPatent, "fio")])
	assert.Equal(t, []entity.MissingFieldRef{ref(constants.DocPatent, "inn")}, s.Missing)

	prompt, ok = c.NextPrompt()
	assert.True(t, ok)
	assert.Equal(t, "ИНН сотрудника", prompt)

	done = c.Record("123456789012")
	assert.True(t, done)
	assert.Equal(t, ManualDone, c.State())
	assert.Empty(t, s.Missing)

	_, ok = c.NextPrompt()
	assert.False(t, ok)
}

func TestManualCoordinatorEmptyQueueIsDone(t *testing.T) {
	s := entity.NewSession(constants.SvcRegistration, entity.CompanyMeta{})
	c := NewManualCoordinator(s)
	assert.Equal(t, ManualDone, c.State())
	_, ok := c.NextPrompt()
	assert.False(t, ok)
}

func TestFieldDescriptionFallback(t *testing.T) {
	assert.Equal(t, "email для пункта 10",
		FieldDescription(constants.DocDMS, "insurance_expiry"))
	assert.Equal(t, `значение для "unknown_field"`,
		FieldDescription(constants.DocDMS, "unknown_field"))
}
