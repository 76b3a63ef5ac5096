package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gradlink/profmatch/internal/domain"
	corpusuc "github.com/gradlink/profmatch/internal/usecase/corpus"
	healthuc "github.com/gradlink/profmatch/internal/usecase/health"
	profileuc "github.com/gradlink/profmatch/internal/usecase/profile"
	registrationuc "github.com/gradlink/profmatch/internal/usecase/registration"
)

// Matcher ranks professor profiles against a report text.
type Matcher interface {
	FindMatches(ctx context.Context, text string, topK int, includeRationale bool) ([]domain.Match, error)
	DefaultTopK() int
}

// Corpus exposes the refresh surface of the profile corpus.
type Corpus interface {
	Refresh(ctx context.Context) error
	Snapshot() *corpusuc.Snapshot
}

// Registrations is the registration admission-control surface.
type Registrations interface {
	Create(ctx context.Context, studentID, professorID, documentID string,
		priority int, notes string) (registrationuc.CreateResult, error)
	UpdateStatus(ctx context.Context, regID, rawStatus, actorUserID,
		notes, reason string) (registrationuc.UpdateResult, error)
	Get(ctx context.Context, regID, actorUserID string) (domain.Registration, error)
	Delete(ctx context.Context, regID, actorUserID string) error
	ListForUser(ctx context.Context, userID string) ([]registrationuc.Enriched, error)
}

// Profiles is the professor profile management surface.
type Profiles interface {
	GetMine(ctx context.Context, userID string) (domain.Profile, error)
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	Upsert(ctx context.Context, userID string, in profileuc.Input) (domain.Profile, error)
	DeleteMine(ctx context.Context, userID string) error
}

// Notifications is the per-user notification inbox surface.
type Notifications interface {
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

// Health aggregates component health checks.
type Health interface {
	Check(ctx context.Context) healthuc.Report
}

// ErrorCode is a machine-readable error code returned to clients.
type ErrorCode string

// Error codes returned in error responses.
const (
	codeBadRequest            ErrorCode = "bad_request"
	codeValidationFailed      ErrorCode = "validation_failed"
	codeUnauthorized          ErrorCode = "unauthorized"
	codeAccessDenied          ErrorCode = "access_denied"
	codeInvalidRole           ErrorCode = "invalid_role"
	codeNotFound              ErrorCode = "not_found"
	codeProfileNotFound       ErrorCode = "profile_not_found"
	codeRegistrationNotFound  ErrorCode = "registration_not_found"
	codeUserNotFound          ErrorCode = "user_not_found"
	codeDuplicateRegistration ErrorCode = "duplicate_registration"
	codeQuotaExceeded         ErrorCode = "quota_exceeded"
	codeEmbeddingProvider     ErrorCode = "embedding_provider_error"
	codeInternalError         ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	matcher       Matcher
	corpus        Corpus
	registrations Registrations
	profiles      Profiles
	notifications Notifications
	health        Health
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	matcher Matcher,
	corpus Corpus,
	registrations Registrations,
	profiles Profiles,
	notifications Notifications,
	health Health,
	logger *zap.Logger,
) *Server {
	s := &Server{
		matcher:       matcher,
		corpus:        corpus,
		registrations: registrations,
		profiles:      profiles,
		notifications: notifications,
		health:        health,
		logger:        logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRegistrationNotFound, http.StatusNotFound, codeRegistrationNotFound),
		sentinelHandler(domain.ErrProfileNotFound, http.StatusNotFound, codeProfileNotFound),
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound, codeUserNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAccessDenied, http.StatusForbidden, codeAccessDenied),
		sentinelHandler(domain.ErrInvalidRole, http.StatusForbidden, codeInvalidRole),
		sentinelHandler(domain.ErrDuplicateRegistration, http.StatusConflict, codeDuplicateRegistration),
		sentinelHandler(domain.ErrQuotaExceeded, http.StatusConflict, codeQuotaExceeded),
		sentinelHandler(domain.ErrInvalidStatus, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidTopK, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
	}
	return s
}

// RegisterRoutes mounts all API routes on the router.
func (s *Server) RegisterRoutes(r chirouter.Router) {
	r.Route("/api", func(r chirouter.Router) {
		r.Post("/matching/find", s.findMatches)
		r.Post("/matching/reload", s.reloadCorpus)

		r.Post("/registrations", s.createRegistration)
		r.Get("/registrations", s.listRegistrations)
		r.Get("/registrations/{id}", s.getRegistration)
		r.Put("/registrations/{id}/status", s.updateRegistrationStatus)
		r.Delete("/registrations/{id}", s.deleteRegistration)

		r.Get("/profiles/me", s.getMyProfile)
		r.Put("/profiles/me", s.upsertMyProfile)
		r.Delete("/profiles/me", s.deleteMyProfile)
		r.Get("/profiles/{id}", s.getProfile)

		r.Get("/notifications", s.listNotifications)
		r.Get("/notifications/unread-count", s.unreadCount)
		r.Post("/notifications/read-all", s.markAllRead)
		r.Post("/notifications/{id}/read", s.markNotificationRead)
		r.Delete("/notifications/{id}", s.deleteNotification)
	})

	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metrics)
}

// processedPreviewLimit caps the echoed report text in match responses.
const processedPreviewLimit = 200

type matchRequest struct {
	Text            string `json:"text"`
	TopK            *int   `json:"top_k"`
	IncludeAnalysis *bool  `json:"include_analysis"`
}

type matchResponse struct {
	Matches       []matchJSON `json:"matches"`
	Total         int         `json:"total"`
	ProcessedText string      `json:"processed_text"`
}

// findMatches handles POST /api/matching/find.
func (s *Server) findMatches(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	topK := s.matcher.DefaultTopK()
	if req.TopK != nil {
		topK = *req.TopK
	}
	includeAnalysis := true
	if req.IncludeAnalysis != nil {
		includeAnalysis = *req.IncludeAnalysis
	}

	matches, err := s.matcher.FindMatches(r.Context(), req.Text, topK, includeAnalysis)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]matchJSON, len(matches))
	for i, m := range matches {
		items[i] = matchToJSON(m)
	}

	writeJSON(w, http.StatusOK, matchResponse{
		Matches:       items,
		Total:         len(items),
		ProcessedText: previewText(req.Text),
	})
}

// reloadCorpus handles POST /api/matching/reload.
func (s *Server) reloadCorpus(w http.ResponseWriter, r *http.Request) {
	if err := s.corpus.Refresh(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := map[string]any{"success": true}
	if snap := s.corpus.Snapshot(); snap != nil {
		resp["profiles"] = len(snap.Entries)
		resp["seeded"] = snap.Seeded
	}
	writeJSON(w, http.StatusOK, resp)
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= processedPreviewLimit {
		return text
	}
	return string(runes[:processedPreviewLimit]) + "..."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRegistrationNotFound,
		domain.ErrProfileNotFound,
		domain.ErrUserNotFound,
		domain.ErrNotFound,
		domain.ErrAccessDenied,
		domain.ErrInvalidRole,
		domain.ErrDuplicateRegistration,
		domain.ErrQuotaExceeded,
		domain.ErrInvalidStatus,
		domain.ErrInvalidTopK,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
