// Package web serves the summary form and its JSON endpoint.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/logger"
	"github.com/thomas-vilte/prsummarizer/internal/services"
)

//go:embed static/index.html
var indexHTML []byte

const (
	maxRequestBody  = 64 << 10
	requestIDHeader = "X-Request-ID"
)

// PRService is the part of the orchestrator the handler needs.
type PRService interface {
	Summarize(ctx context.Context, req services.SummarizeRequest) (string, error)
}

type Handler struct {
	service PRService
}

type summarizeRequest struct {
	Repo     string   `json:"repo"`
	PRNumber prNumber `json:"prNumber"`
	Provider string   `json:"provider"`
}

type summarizeResponse struct {
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// prNumber accepts both 42 and "42"; browsers post whatever the form holds.
type prNumber int

func (n *prNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("prNumber must be an integer: %w", err)
	}
	*n = prNumber(v)
	return nil
}

func NewHandler(service PRService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("POST /summarize", h.handleSummarize)
}

// Routes returns a mux with every route registered, each request tagged
// with a request id.
func (h *Handler) Routes(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return withRequestID(ctx, mux)
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleSummarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var body summarizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&body); err != nil {
		logger.Warn(ctx, "invalid summarize request", "error", err)
		writeJSON(w, http.StatusBadRequest, summarizeResponse{Error: "Invalid JSON body: " + err.Error()})
		return
	}

	if strings.TrimSpace(body.Repo) == "" || body.PRNumber == 0 {
		writeJSON(w, http.StatusBadRequest, summarizeResponse{Error: domainErrors.ErrRepoRequired.Message})
		return
	}
	if body.PRNumber < 0 {
		writeJSON(w, http.StatusBadRequest, summarizeResponse{Error: domainErrors.ErrInvalidPRNumber.Message})
		return
	}

	provider := body.Provider
	if provider == "" {
		provider = "basic"
	}

	summary, err := h.service.Summarize(ctx, services.SummarizeRequest{
		Repo:     strings.TrimSpace(body.Repo),
		PRNumber: int(body.PRNumber),
		Provider: provider,
	})
	if err != nil {
		status := statusFor(err)
		logger.Error(ctx, "summarize request failed", err,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds())
		writeJSON(w, status, summarizeResponse{Error: userMessage(err)})
		return
	}

	logger.Info(ctx, "summarize request served",
		"repo", body.Repo,
		"pr_number", int(body.PRNumber),
		"duration_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary})
}

func withRequestID(base context.Context, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := logger.WithLogger(r.Context(), logger.FromContext(base))
		ctx = logger.With(ctx,
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func statusFor(err error) int {
	if domainErrors.IsType(err, domainErrors.TypeValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// userMessage renders err without the type prefix used in logs.
func userMessage(err error) string {
	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}

	msg := appErr.Message
	if detail, ok := appErr.Context["detail"].(string); ok && detail != "" {
		msg += ": " + detail
	}
	if appErr.Err != nil {
		msg += " (" + appErr.Err.Error() + ")"
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
