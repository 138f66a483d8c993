package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/executor-runtime/internal/configuration"
	"github.com/eugenenazirov/executor-runtime/internal/executor"
	"github.com/eugenenazirov/executor-runtime/internal/resources"
)

var testNow = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

func newTestRuntime(t *testing.T, entries map[string]string) *executor.RuntimeConfig {
	t.Helper()

	raw := configuration.FromMap(entries)
	spec, err := resources.SpecFromConfiguration(raw)
	if err != nil {
		t.Fatalf("SpecFromConfiguration returned error: %v", err)
	}
	runtime, err := executor.FromConfiguration(raw, spec, "executor-1", t.TempDir(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("FromConfiguration returned error: %v", err)
	}
	return runtime
}

func setupTestRouter(t *testing.T, entries map[string]string) http.Handler {
	t.Helper()

	handler := NewHandler(newTestRuntime(t, entries), "executor-1-abcdef", WithClock(func() time.Time { return testNow }))
	return NewRouter(handler, zaptest.NewLogger(t), WithLogging(false))
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	if got := requestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t, nil)

	rec := get(t, router, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status     string    `json:"status"`
		ResourceID string    `json:"resourceId"`
		Timestamp  time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if body.ResourceID != "executor-1-abcdef" {
		t.Fatalf("unexpected resource id %s", body.ResourceID)
	}
	if !body.Timestamp.Equal(testNow) {
		t.Fatalf("expected timestamp %s, got %s", testNow, body.Timestamp)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRuntimeEndpoint(t *testing.T) {
	router := setupTestRouter(t, map[string]string{
		configuration.Slots.Key:               "-1",
		configuration.RegistrationTimeout.Key: "not-a-duration",
		configuration.LogPath.Key:             "/var/log/executor/executor.log",
	})

	rec := get(t, router, "/api/runtime")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		SlotCount               int      `json:"slotCount"`
		MaxRegistrationDuration *string  `json:"maxRegistrationDuration"`
		LogFilePath             *string  `json:"logFilePath"`
		StdoutFilePath          *string  `json:"stdoutFilePath"`
		LogDirectory            *string  `json:"logDirectory"`
		ExternalAddress         string   `json:"externalAddress"`
		TmpDirectories          []string `json:"tmpDirectories"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.SlotCount != 1 {
		t.Fatalf("expected sentinel slot count to resolve to 1, got %d", body.SlotCount)
	}
	if body.MaxRegistrationDuration != nil {
		t.Fatalf("expected unbounded registration, got %s", *body.MaxRegistrationDuration)
	}
	if body.LogFilePath == nil || *body.LogFilePath != "/var/log/executor/executor.log" {
		t.Fatalf("unexpected log file path %v", body.LogFilePath)
	}
	if body.StdoutFilePath == nil || *body.StdoutFilePath != "/var/log/executor/executor.out" {
		t.Fatalf("unexpected stdout file path %v", body.StdoutFilePath)
	}
	if body.LogDirectory == nil || *body.LogDirectory != "/var/log/executor" {
		t.Fatalf("unexpected log directory %v", body.LogDirectory)
	}
	if body.ExternalAddress != "executor-1" {
		t.Fatalf("unexpected external address %s", body.ExternalAddress)
	}
	if len(body.TmpDirectories) == 0 {
		t.Fatalf("expected tmp directories")
	}
}

func TestConfigurationEndpointMasksSecrets(t *testing.T) {
	router := setupTestRouter(t, map[string]string{
		"s3.secret-key":         "hunter2",
		configuration.Slots.Key: "4",
	})

	rec := get(t, router, "/api/configuration")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var entries []configuration.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := []configuration.Entry{
		{Key: configuration.Slots.Key, Value: "4"},
		{Key: "s3.secret-key", Value: configuration.HiddenContent},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], entries[i])
		}
	}
}

func TestConfigurationEndpointEmpty(t *testing.T) {
	router := setupTestRouter(t, nil)

	rec := get(t, router, "/api/configuration")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestLogsEndpoint(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "executor.log")
	if err := os.WriteFile(logPath, []byte("started\n"), 0o600); err != nil {
		t.Fatalf("write log file: %v", err)
	}

	router := setupTestRouter(t, map[string]string{configuration.LogPath.Key: logPath})

	t.Run("serves log file", func(t *testing.T) {
		rec := get(t, router, "/api/logs/log")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if rec.Body.String() != "started\n" {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("missing stdout file", func(t *testing.T) {
		rec := get(t, router, "/api/logs/stdout")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := get(t, router, "/api/logs/gc")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestLogsEndpointServesRedirectedStdout(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "executor.log")
	if err := os.WriteFile(filepath.Join(dir, "executor.out"), []byte("stdout line\n"), 0o600); err != nil {
		t.Fatalf("write stdout file: %v", err)
	}

	router := setupTestRouter(t, map[string]string{configuration.LogPath.Key: logPath})

	rec := get(t, router, "/api/logs/stdout")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "stdout line\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %s", got)
	}
}

func TestLogsEndpointWithoutLogPath(t *testing.T) {
	router := setupTestRouter(t, nil)

	for _, kind := range []string{"log", "stdout"} {
		rec := get(t, router, "/api/logs/"+kind)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status 404, got %d", kind, rec.Code)
		}
	}
}

func TestLogsEndpointHiddenFileHasNoStdout(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, ".hidden")
	if err := os.WriteFile(logPath, []byte("x"), 0o600); err != nil {
		t.Fatalf("write log file: %v", err)
	}
	router := setupTestRouter(t, map[string]string{configuration.LogPath.Key: logPath})

	if rec := get(t, router, "/api/logs/log"); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for log, got %d", rec.Code)
	}
	if rec := get(t, router, "/api/logs/stdout"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for stdout, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := setupTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/runtime", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := setupTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/runtime", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,OPTIONS" {
		t.Fatalf("unexpected allowed methods %s", got)
	}
}
