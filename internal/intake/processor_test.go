package intake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/llm"
	"github.com/easymigrate/docintake/internal/ocr"
)

// stubRecognizer serves canned OCR text keyed by file name.
type stubRecognizer struct {
	texts map[string]string
	pages map[string]ocr.PageRange
}

func (r *stubRecognizer) ExtractText(_ context.Context, doc entity.UploadedDocument, pages ocr.PageRange) (ocr.Result, error) {
	if r.pages != nil {
		r.pages[doc.Name] = pages
	}
	return ocr.Result{Text: r.texts[doc.Name], SourceType: constants.PDF}, nil
}

// stubExtractor serves canned model replies keyed by document type.
type stubExtractor struct {
	replies map[constants.DocumentType]string
}

func (e *stubExtractor) ExtractFields(_ context.Context, req llm.ExtractRequest) (string, error) {
	return e.replies[req.DocType], nil
}

func TestProcessWorkerNotificationPatentUnreadable(t *testing.T) {
	s := entity.NewSession(constants.SvcWorkerNotification, entity.CompanyMeta{INN: "7733450363"})
	s.Attach(entity.UploadedDocument{Name: "passport.pdf", MIME: "application/pdf"})
	s.Attach(entity.UploadedDocument{Name: "патент.pdf", MIME: "application/pdf"})
	s.Attach(entity.UploadedDocument{Name: "dms.pdf", MIME: "application/pdf"})
	s.Attach(entity.UploadedDocument{Name: "договор.pdf", MIME: "application/pdf"})

	recognizer := &stubRecognizer{
		texts: map[string]string{
			"passport.pdf": "raw passport text",
			"патент.pdf":   "", // unreadable scan
			"dms.pdf":      "raw dms text",
			"договор.pdf":  "raw contract text",
		},
		pages: map[string]ocr.PageRange{},
	}
	extractor := &stubExtractor{replies: map[constants.DocumentType]string{
		constants.DocPassport: "Дата рождения: 01.01.1990\nНомер: AB1234567",
		constants.DocDMS:      "Номер полиса: DMS-1\nСтраховая организация: СОГАЗ\nДата выдачи: 01.02.2024\nСрок действия: 01.02.2025",
		constants.DocContract: "Должность: повар\nДата договора: 15.03.2024",
	}}

	p := NewProcessor(nil, recognizer, extractor, Config{})
	report, err := p.Process(context.Background(), s)
	require.NoError(t, err)

	// Only the patent's mandatory fields are queued, in declaration order.
	assert.Equal(t, []entity.MissingFieldRef{
		ref(constants.DocPatent, "fio"),
		ref(constants.DocPatent, "patent_number"),
		ref(constants.DocPatent, "patent_date"),
		ref(constants.DocPatent, "inn"),
	}, report.Missing)
	assert.True(t, report.NeedsInput)
	assert.Equal(t, "ФИО владельца (русскими буквами)", report.FirstPrompt)
	assert.Equal(t, constants.PhaseManualInput, s.Phase)

	// The failure stays scoped to the patent pipeline.
	for _, r := range report.Results {
		if r.DocType == constants.DocPatent {
			require.NotNil(t, r.Failure)
			assert.Equal(t, constants.StageOCR, r.Failure.Stage)
		} else {
			assert.Nil(t, r.Failure)
		}
	}

	assert.Equal(t, "01.01.1990", s.Fields[constants.DocPassport].Get("birthdate"))
	assert.Equal(t, "DMS-1", s.Fields[constants.DocDMS].Get("dms_number"))
	assert.Equal(t, "повар", s.Fields[constants.DocContract].Get("position"))

	// Page ranges by document type.
	assert.Equal(t, ocr.FirstPage, recognizer.pages["passport.pdf"])
	assert.Equal(t, ocr.FirstTwoPages, recognizer.pages["патент.pdf"])
	assert.Equal(t, ocr.All, recognizer.pages["договор.pdf"])
}

func TestProcessCompleteSessionSkipsManualInput(t *testing.T) {
	s := entity.NewSession(constants.SvcWorkerNotification, entity.CompanyMeta{})
	s.Attach(entity.UploadedDocument{Name: "passport.pdf"})
	s.Attach(entity.UploadedDocument{Name: "патент.pdf"})
	s.Attach(entity.UploadedDocument{Name: "dms.pdf"})
	s.Attach(entity.UploadedDocument{Name: "договор.pdf"})

	recognizer := &stubRecognizer{texts: map[string]string{
		"passport.pdf": "t", "патент.pdf": "t", "dms.pdf": "t", "договор.pdf": "t",
	}}
	extractor := &stubExtractor{replies: map[constants.DocumentType]string{
		constants.DocPassport: "Дата рождения: 01.01.1990\nНомер: AB1234567",
		constants.DocPatent:   "ФИО: Алиев Вали\nНомер патента: 77001\nДата выдачи: 01.03.2024\nИНН: 123456789012",
		constants.DocDMS:      "Номер полиса: DMS-1\nДата выдачи: 01.02.2024\nСрок действия: 01.02.2025",
		constants.DocContract: "Должность: повар\nДата договора: 15.03.2024",
	}}

	report, err := NewProcessor(nil, recognizer, extractor, Config{}).Process(context.Background(), s)
	require.NoError(t, err)

	assert.Empty(t, report.Missing)
	assert.False(t, report.NeedsInput)
	assert.Equal(t, constants.PhaseFinalizing, s.Phase)
}

func TestProcessMissingDocumentQueuesAllItsFields(t *testing.T) {
	// Registration expects passport, migration card, and patent; only the
	// passport is uploaded.
	s := entity.NewSession(constants.SvcRegistration, entity.CompanyMeta{})
	s.Attach(entity.UploadedDocument{Name: "passport.pdf"})

	recognizer := &stubRecognizer{texts: map[string]string{"passport.pdf": "t"}}
	extractor := &stubExtractor{replies: map[constants.DocumentType]string{
		constants.DocPassport: "Дата рождения: 01.01.1990\nНомер: AB1234567",
	}}

	report, err := NewProcessor(nil, recognizer, extractor, Config{}).Process(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, []entity.MissingFieldRef{
		ref(constants.DocMigration, "migration_card_number"),
		ref(constants.DocMigration, "migration_card_date"),
		ref(constants.DocPatent, "fio"),
		ref(constants.DocPatent, "patent_number"),
		ref(constants.DocPatent, "patent_date"),
		ref(constants.DocPatent, "patent_blank"),
	}, report.Missing)
}

func TestProcessModelErrorReplyQueuesFields(t *testing.T) {
	s := entity.NewSession(constants.SvcPassportTranslation, entity.CompanyMeta{})
	s.Attach(entity.UploadedDocument{Name: "passport.pdf"})

	recognizer := &stubRecognizer{texts: map[string]string{"passport.pdf": "t"}}
	extractor := &stubExtractor{replies: map[constants.DocumentType]string{
		constants.DocPassport: llm.ErrorMarker,
	}}

	report, err := NewProcessor(nil, recognizer, extractor, Config{}).Process(context.Background(), s)
	require.NoError(t, err)

	require.NotNil(t, report.Results[0].Failure)
	assert.Equal(t, constants.StageExtract, report.Results[0].Failure.Stage)
	// The translation sheet cannot render without the passport data, so
	// all three mandatory fields queue for manual entry.
	assert.Equal(t, []entity.MissingFieldRef{
		ref(constants.DocPassport, "fio"),
		ref(constants.DocPassport, "birthdate"),
		ref(constants.DocPassport, "passport_number"),
	}, report.Missing)
	assert.True(t, report.NeedsInput)
	assert.Equal(t, constants.PhaseManualInput, s.Phase)
}

func TestProcessTranslationCompleteWithPassportName(t *testing.T) {
	s := entity.NewSession(constants.SvcPassportTranslation, entity.CompanyMeta{})
	s.Attach(entity.UploadedDocument{Name: "passport.pdf"})

	recognizer := &stubRecognizer{texts: map[string]string{"passport.pdf": "t"}}
	extractor := &stubExtractor{replies: map[constants.DocumentType]string{
		constants.DocPassport: "ФИО: Иванов Иван Иванович\nДата рождения: 01.01.1990\nНомер: AB1234567",
	}}

	report, err := NewProcessor(nil, recognizer, extractor, Config{}).Process(context.Background(), s)
	require.NoError(t, err)

	assert.Empty(t, report.Missing)
	assert.Equal(t, constants.PhaseFinalizing, s.Phase)
	assert.Equal(t, "ИВАНОВ ИВАН ИВАНОВИЧ", s.Fields[constants.DocPassport].Get("fio"))
}
