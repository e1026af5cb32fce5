package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/intake"
	"github.com/easymigrate/docintake/internal/llm"
	"github.com/easymigrate/docintake/internal/ocr"
)

type fakeRecognizer struct{ texts map[string]string }

func (f *fakeRecognizer) ExtractText(_ context.Context, doc entity.UploadedDocument, _ ocr.PageRange) (ocr.Result, error) {
	return ocr.Result{Text: f.texts[doc.Name], SourceType: constants.PDF}, nil
}

type fakeExtractor struct{ replies map[constants.DocumentType]string }

func (f *fakeExtractor) ExtractFields(_ context.Context, req llm.ExtractRequest) (string, error) {
	return f.replies[req.DocType], nil
}

type fakeStore struct {
	table string
	rec   entity.CanonicalRecord
}

func (f *fakeStore) SaveRecord(_ context.Context, table string, rec entity.CanonicalRecord) error {
	f.table = table
	f.rec = rec
	return nil
}

func newTestServer(store intake.Store) *Server {
	recognizer := &fakeRecognizer{texts: map[string]string{"passport.pdf": "raw text"}}
	extractor := &fakeExtractor{replies: map[constants.DocumentType]string{
		constants.DocPassport: "Дата рождения: 01.01.1990\nНомер: AB1234567",
	}}
	processor := intake.NewProcessor(nil, recognizer, extractor, intake.Config{})
	finalizer := intake.NewFinalizer(nil, nil, store)
	return New(nil, processor, finalizer)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	out := map[string]any{}
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	}
	return rr, out
}

func uploadFile(t *testing.T, h http.Handler, path, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSessionLifecycle(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(store).Handler()

	// Known tax id autofills company requisites.
	rr, created := doJSON(t, srv, http.MethodPost, "/v1/sessions", map[string]string{
		"inn":     "7733450363",
		"service": string(constants.SvcRegistration),
		"stage":   "Первичная",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := created["id"].(string)
	company := created["company"].(map[string]any)
	assert.Equal(t, `ООО "ЭЛЕНВКВ"`, company["name"])
	assert.Equal(t, string(constants.PhaseCollecting), created["phase"])

	rr = uploadFile(t, srv, "/v1/sessions/"+id+"/documents", "passport.pdf")
	require.Equal(t, http.StatusOK, rr.Code)

	// Migration card and patent are absent, so processing lands in
	// manual input with the head-of-queue prompt.
	rr, processed := doJSON(t, srv, http.MethodPost, "/v1/sessions/"+id+"/process", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, string(constants.PhaseManualInput), processed["phase"])
	assert.Equal(t, "номер миграционной карты", processed["prompt"])

	answers := []string{"1234567", "01.05.2024", "Алиев Вали", "77001", "01.03.2024", "ПР4744675"}
	var last map[string]any
	for _, answer := range answers {
		rr, last = doJSON(t, srv, http.MethodPost, "/v1/sessions/"+id+"/manual", map[string]string{"value": answer})
		require.Equal(t, http.StatusOK, rr.Code)
	}
	assert.Equal(t, string(constants.PhaseCompleted), last["phase"])

	require.Equal(t, constants.TableApplications, store.table)
	assert.Equal(t, "01.01.1990", store.rec["birthdate"])
	assert.Equal(t, "АЛИЕВ ВАЛИ", store.rec["fio"])
	assert.Equal(t, "ПР", store.rec["patent_blank_series"])
	assert.Equal(t, "4744675", store.rec["patent_blank_number"])
}

func TestRefdataMenu(t *testing.T) {
	srv := newTestServer(&fakeStore{}).Handler()
	rr, body := doJSON(t, srv, http.MethodGet, "/v1/refdata", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	services := body["services"].([]any)
	assert.Len(t, services, len(constants.Services))
	cities := body["cities"].([]any)
	require.Len(t, cities, 3)
	assert.Equal(t, "ДМИТРОВ", cities[0])
}

func TestCreateSessionValidation(t *testing.T) {
	srv := newTestServer(&fakeStore{}).Handler()

	rr, _ := doJSON(t, srv, http.MethodPost, "/v1/sessions", map[string]string{
		"inn": "123", "service": string(constants.SvcRegistration),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = doJSON(t, srv, http.MethodPost, "/v1/sessions", map[string]string{
		"inn": "1234567890", "service": "нет такой услуги",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown tax id needs an explicit company name.
	rr, _ = doJSON(t, srv, http.MethodPost, "/v1/sessions", map[string]string{
		"inn": "1234567890", "service": string(constants.SvcRegistration),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, created := doJSON(t, srv, http.MethodPost, "/v1/sessions", map[string]string{
		"inn": "1234567890", "service": string(constants.SvcRegistration), "company_name": `ООО "Ромашка"`,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, `ООО "Ромашка"`, created["company"].(map[string]any)["name"])
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	srv := newTestServer(&fakeStore{}).Handler()
	_, created := doJSON(t, srv, http.MethodPost, "/v1/sessions", map[string]string{
		"inn": "7733450363", "service": string(constants.SvcRegistration),
	})
	id := created["id"].(string)

	rr := uploadFile(t, srv, "/v1/sessions/"+id+"/documents", "а.docx")
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestCancelSession(t *testing.T) {
	srv := newTestServer(&fakeStore{}).Handler()
	_, created := doJSON(t, srv, http.MethodPost, "/v1/sessions", map[string]string{
		"inn": "7733450363", "service": string(constants.SvcRegistration),
	})
	id := created["id"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+id, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr2, _ := doJSON(t, srv, http.MethodGet, "/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr2.Code)
}

func TestManualInputConflictBeforeProcessing(t *testing.T) {
	srv := newTestServer(&fakeStore{}).Handler()
	_, created := doJSON(t, srv, http.MethodPost, "/v1/sessions", map[string]string{
		"inn": "7733450363", "service": string(constants.SvcRegistration),
	})
	id := created["id"].(string)

	rr, _ := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/v1/sessions/%s/manual", id), map[string]string{"value": "x"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}
