package api

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/eugenenazirov/executor-runtime/internal/configuration"
	"github.com/eugenenazirov/executor-runtime/internal/executor"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	logKindLog    = "log"
	logKindStdout = "stdout"
)

// Runtime is the view of the resolved executor configuration the handlers serve.
type Runtime interface {
	executor.RuntimeInfo
	Snapshot() executor.Summary
	LogFilePath() (string, bool)
	StdoutFilePath() (string, bool)
}

// Handler exposes the resolved runtime configuration over HTTP.
type Handler struct {
	runtime    Runtime
	resourceID string

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler for the given runtime configuration.
func NewHandler(runtime Runtime, resourceID string, opts ...HandlerOption) *Handler {
	h := &Handler{
		runtime:    runtime,
		resourceID: resourceID,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:     "ok",
		ResourceID: h.resourceID,
		Timestamp:  h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRuntime(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.runtime.Snapshot())
}

func (h *Handler) handleConfiguration(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, configuration.DisplayEntries(h.runtime.Configuration()))
}

// handleLogs serves the log file or the stdout file. The executor only writes the log
// file itself; the stdout file exists when the launcher redirects the process's standard
// output to the derived path, and is reported as not found until then.
func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	var (
		path string
		ok   bool
	)
	switch kind := r.PathValue("kind"); kind {
	case logKindLog:
		path, ok = h.runtime.LogFilePath()
	case logKindStdout:
		path, ok = h.runtime.StdoutFilePath()
	default:
		writeError(w, http.StatusBadRequest, "Invalid request", "kind must be one of log, stdout")
		return
	}

	if !ok {
		writeError(w, http.StatusNotFound, "Not found", "no log file is configured for this executor")
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "Not found", "log file does not exist yet")
			return
		}
		writeInternalError(w, err)
		return
	}
	if info.IsDir() {
		writeError(w, http.StatusNotFound, "Not found", "log path is a directory")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeFile(w, r, path)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status     string    `json:"status"`
	ResourceID string    `json:"resourceId"`
	Timestamp  time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
