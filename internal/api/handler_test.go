package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saketh648/talk2db/internal/agent"
	"github.com/saketh648/talk2db/internal/auth"
	"github.com/saketh648/talk2db/internal/config"
)

func mapLookup(values map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("talk2db-api", mapLookup(map[string]string{}))
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	return cfg
}

type agentStub struct {
	outcome  agent.Outcome
	askErr   error
	resetErr error
	resets   int
	question string
}

func (a *agentStub) Ask(_ context.Context, question string) (agent.Outcome, error) {
	a.question = question
	if a.askErr != nil {
		return agent.Outcome{}, a.askErr
	}
	return a.outcome, nil
}

func (a *agentStub) Reset() error {
	a.resets++
	return a.resetErr
}

func TestHealthEndpoint(t *testing.T) {
	h := NewHandler(testConfig(t), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["service"] != "talk2db-api" {
		t.Fatalf("service = %v", body["service"])
	}
}

func TestReadyEndpointReportsFailingCheck(t *testing.T) {
	deps := Dependencies{
		Readiness: func(context.Context) error { return errors.New("store dsn is not configured") },
	}
	h := NewHandler(testConfig(t), deps)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error_code"] != "NOT_READY" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
}

func TestReadyEndpointWithoutCheckIsReady(t *testing.T) {
	h := NewHandler(testConfig(t), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSessionResetEndpoint(t *testing.T) {
	stub := &agentStub{}
	h := NewHandler(testConfig(t), Dependencies{Agent: stub})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/session/reset", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if stub.resets != 1 {
		t.Fatalf("resets = %d", stub.resets)
	}
}

func TestSessionResetFailure(t *testing.T) {
	stub := &agentStub{resetErr: errors.New("close failed")}
	h := NewHandler(testConfig(t), Dependencies{Agent: stub})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/session/reset", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewHandler(testConfig(t), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAskRequiresAPIKeyWhenAuthEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Required = true
	validator, err := auth.NewStaticAPIKeyValidator("s3cret:dashboard")
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	stub := &agentStub{outcome: agent.Outcome{Success: true, Attempts: 1}}
	h := NewHandler(cfg, Dependencies{
		Agent:          stub,
		AuthMiddleware: auth.Middleware(nil, validator),
	})

	without := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"q"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, without)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no key: status = %d", rr.Code)
	}

	with := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"q"}`))
	with.Header.Set("X-API-Key", "s3cret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, with)
	if rr.Code != http.StatusOK {
		t.Fatalf("with key: status = %d", rr.Code)
	}

	// Health stays open even with auth enabled.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health: status = %d", rr.Code)
	}
}

func TestCombineReadinessChecksStopsAtFirstFailure(t *testing.T) {
	calls := 0
	failing := func(context.Context) error {
		calls++
		return errors.New("boom")
	}
	neverReached := func(context.Context) error {
		t.Fatal("check after a failure must not run")
		return nil
	}

	combined := CombineReadinessChecks(nil, failing, neverReached)
	if err := combined(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
