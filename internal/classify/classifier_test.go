package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
)

func docs(names ...string) []entity.UploadedDocument {
	out := make([]entity.UploadedDocument, len(names))
	for i, n := range names {
		out[i] = entity.UploadedDocument{Name: n, MIME: "application/pdf"}
	}
	return out
}

func TestClassifyClaimsByKeyword(t *testing.T) {
	c := New(nil)
	got := c.Classify(constants.SvcRegistration, docs("Паспорт Иванов.pdf", "миграционная карта.jpg", "patent-2024.pdf"))

	assert.Equal(t, 0, got[constants.DocPassport])
	assert.Equal(t, 1, got[constants.DocMigration])
	assert.Equal(t, 2, got[constants.DocPatent])
}

func TestClassifyFirstMatchWins(t *testing.T) {
	c := New(nil)
	// Two passport scans: upload order decides.
	got := c.Classify(constants.SvcRegistration, docs("passport_old.pdf", "passport_new.pdf"))

	idx, ok := got[constants.DocPassport]
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestClassifyDocumentClaimedOnce(t *testing.T) {
	c := New(nil)
	// Name matches both passport and patent keywords; passport scans first
	// in priority order, so patent must not reuse the same file.
	got := c.Classify(constants.SvcRegistration, docs("паспорт и патент.pdf", "патент оборот.pdf"))

	assert.Equal(t, 0, got[constants.DocPassport])
	assert.Equal(t, 1, got[constants.DocPatent])
}

func TestClassifyServiceScopesTypes(t *testing.T) {
	c := New(nil)
	uploads := docs("миграционная карта.pdf", "дмс полис.pdf", "трудовой договор тд.pdf")

	// Worker notification excludes the migration card entirely.
	got := c.Classify(constants.SvcWorkerNotification, uploads)
	_, hasMigration := got[constants.DocMigration]
	assert.False(t, hasMigration)
	assert.Equal(t, 1, got[constants.DocDMS])
	assert.Equal(t, 2, got[constants.DocContract])

	// Registration ignores dms/contract uploads.
	got = c.Classify(constants.SvcRegistration, uploads)
	assert.Equal(t, 0, got[constants.DocMigration])
	_, hasDMS := got[constants.DocDMS]
	assert.False(t, hasDMS)
}

func TestClassifyNoMatchProducesNoClaim(t *testing.T) {
	c := New(nil)
	got := c.Classify(constants.SvcRegistration, docs("scan001.pdf", "scan002.pdf"))
	assert.Empty(t, got)
}
