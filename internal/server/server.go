package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/easymigrate/docintake/constants"
	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/entity"
	"github.com/easymigrate/docintake/internal/intake"
	"github.com/easymigrate/docintake/internal/refdata"
)

// maxUploadBytes bounds one uploaded document.
const maxUploadBytes = 20 << 20

// Server wires the intake engine behind a chi router.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	sessions  *registry
	processor *intake.Processor
	finalizer *intake.Finalizer
}

func New(logger *slog.Logger, processor *intake.Processor, finalizer *intake.Finalizer) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger,
		sessions:  newRegistry(),
		processor: processor,
		finalizer: finalizer,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Menu data for dialogue drivers: offered services and the cities
	// the notification flow knows offices for.
	s.router.Get("/v1/refdata", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"services": constants.Services,
			"cities":   refdata.Cities,
		})
	})

	s.router.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleCancelSession)
			r.Post("/documents", s.handleUploadDocument)
			r.Post("/process", s.handleProcess)
			r.Post("/manual", s.handleManualInput)
			r.Get("/artifacts/{name}", s.handleDownloadArtifact)
		})
	})
}

type createSessionRequest struct {
	INN         string `json:"inn"`
	CompanyName string `json:"company_name,omitempty"`
	Service     string `json:"service"`
	Stage       string `json:"stage,omitempty"`
	City        string `json:"city,omitempty"`
}

type sessionResponse struct {
	ID        string                   `json:"id"`
	Service   string                   `json:"service"`
	Phase     constants.SessionPhase   `json:"phase"`
	Company   entity.CompanyMeta       `json:"company"`
	Documents int                      `json:"documents"`
	Missing   []entity.MissingFieldRef `json:"missing,omitempty"`
	Prompt    string                   `json:"prompt,omitempty"`
	Artifacts []string                 `json:"artifacts,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	service := constants.ServiceType(strings.TrimSpace(req.Service))
	if !service.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown service %q", req.Service))
		return
	}
	if !refdata.ValidINN(req.INN) {
		writeError(w, http.StatusBadRequest, errors.New("inn must be 10 or 12 digits"))
		return
	}

	company := entity.CompanyMeta{INN: strings.TrimSpace(req.INN), Name: strings.TrimSpace(req.CompanyName)}
	if known, ok := refdata.CompanyByINN(company.INN); ok {
		company.Name = known.Name
		company.Address = known.LegalAddress
		company.OGRN = known.OGRN
		company.KPP = known.KPP
	} else if company.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("company_name required for unknown inn"))
		return
	}

	sess := entity.NewSession(service, company)
	sess.Stage = strings.TrimSpace(req.Stage)
	sess.City = strings.TrimSpace(req.City)
	st := s.sessions.add(sess)

	s.logger.Info("api.session.created",
		"session_id", sess.ID,
		"service", service,
		"company_inn", company.INN,
	)
	writeJSON(w, http.StatusCreated, snapshot(st))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	st, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	writeJSON(w, http.StatusOK, snapshot(st))
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	st, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st.mu.Lock()
	st.session.Phase = constants.PhaseCancelled
	id := st.session.ID
	st.mu.Unlock()

	s.sessions.remove(id)
	s.logger.Info("api.session.cancelled", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	st, ok := s.lookup(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file part: %w", err))
		return
	}
	defer file.Close()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, allowed := constants.AllowedExtensions[ext]; !allowed {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported extension %q", ext))
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session.Phase != constants.PhaseCollecting {
		writeError(w, http.StatusConflict,
			fmt.Errorf("session is %s, uploads are closed", st.session.Phase))
		return
	}
	st.session.Attach(entity.UploadedDocument{
		Name:    header.Filename,
		MIME:    header.Header.Get("Content-Type"),
		Content: content,
	})
	s.logger.Info("api.document.attached",
		"session_id", st.session.ID,
		"name", header.Filename,
		"bytes", len(content),
	)
	writeJSON(w, http.StatusOK, snapshot(st))
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	st, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.session.Phase != constants.PhaseCollecting {
		writeError(w, http.StatusConflict,
			fmt.Errorf("session is %s, already processed", st.session.Phase))
		return
	}
	if len(st.session.Documents) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("no documents uploaded"))
		return
	}

	ctx := s.requestContext(r, st)
	report, err := s.processor.Process(ctx, st.session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if report.NeedsInput {
		st.coord = intake.NewManualCoordinator(st.session)
		resp := snapshot(st)
		resp.Prompt, _ = st.coord.NextPrompt()
		writeJSON(w, http.StatusOK, resp)
		return
	}
	s.finalize(ctx, w, st)
}

type manualInputRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleManualInput(w http.ResponseWriter, r *http.Request) {
	st, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req manualInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.session.Phase != constants.PhaseManualInput || st.coord == nil {
		writeError(w, http.StatusConflict, errors.New("session is not awaiting manual input"))
		return
	}

	if done := st.coord.Record(req.Value); !done {
		resp := snapshot(st)
		resp.Prompt, _ = st.coord.NextPrompt()
		writeJSON(w, http.StatusOK, resp)
		return
	}
	s.finalize(s.requestContext(r, st), w, st)
}

func (s *Server) handleDownloadArtifact(w http.ResponseWriter, r *http.Request) {
	st, ok := s.lookup(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")

	st.mu.Lock()
	defer st.mu.Unlock()
	for _, art := range st.artifacts {
		if art.Name == name {
			w.Header().Set("Content-Type", art.MIME)
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Name))
			w.WriteHeader(http.StatusOK)
			w.Write(art.Content)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Errorf("no artifact %q", name))
}

// finalize runs the closing sequence and reports the terminal state.
// Callers hold the session lock.
func (s *Server) finalize(ctx context.Context, w http.ResponseWriter, st *sessionState) {
	out, err := s.finalizer.Finalize(ctx, st.session)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			writeError(w, http.StatusBadGateway, appErr)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	st.artifacts = out.Artifacts
	writeJSON(w, http.StatusOK, snapshot(st))
}

// requestContext annotates the request context with the chi request id
// and the session id so downstream log lines correlate.
func (s *Server) requestContext(r *http.Request, st *sessionState) context.Context {
	ctx := common.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
	return common.WithSessionID(ctx, st.session.ID.String())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*sessionState, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid session id: %w", err))
		return nil, false
	}
	st, ok := s.sessions.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no session %s", id))
		return nil, false
	}
	return st, true
}

// snapshot renders the response view of a session. Callers hold the
// session lock (or exclusively own the state, as on create).
func snapshot(st *sessionState) sessionResponse {
	names := make([]string, 0, len(st.artifacts))
	for _, a := range st.artifacts {
		names = append(names, a.Name)
	}
	return sessionResponse{
		ID:        st.session.ID.String(),
		Service:   string(st.session.Service),
		Phase:     st.session.Phase,
		Company:   st.session.Company,
		Documents: len(st.session.Documents),
		Missing:   st.session.Missing,
		Artifacts: names,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("api: encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
