package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/infrastructure/repository/memory"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

func newRouterForTest(token string, swaggerEnabled bool) (http.Handler, *stubSyncRunner) {
	runner := &stubSyncRunner{}
	display := usecase.NewEventDisplayService(
		memory.NewAppConfigRepository(nil),
		memory.NewEventRepository(),
		memory.NewTeamEventStatusRepository(),
		memory.NewEventMatchRepository(),
		logging.NewNop(),
	)
	handler := NewHandler(display, runner, nil, nil, memory.NewAppConfigRepository(nil), logging.NewNop())
	router := NewRouter(handler, logging.NewNop(), swaggerEnabled, nil, token)
	return router, runner
}

func TestRouter_InternalRoutesRequireToken(t *testing.T) {
	router, runner := newRouterForTest("router-token", false)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/event-check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status without token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
	if got := runner.callCount(); got != 0 {
		t.Fatalf("runner must not run without a token, got %d calls", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/event-check", nil)
	req.Header.Set("X-Internal-Job-Token", "router-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status with token: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := runner.callCount(); got != 1 {
		t.Fatalf("unexpected runner calls: got=%d want=%d", got, 1)
	}
}

func TestRouter_PublicSummaryNeedsNoToken(t *testing.T) {
	router, _ := newRouterForTest("router-token", false)

	req := httptest.NewRequest(http.MethodGet, "/v1/event/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newRouterForTest("", false)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}

func TestRouter_SwaggerGate(t *testing.T) {
	router, _ := newRouterForTest("", false)
	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("openapi document must be hidden when swagger is disabled: got=%d want=%d", rec.Code, http.StatusNotFound)
	}

	router, _ = newRouterForTest("", true)
	req = httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected spec status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "openapi:") {
		t.Fatalf("expected an OpenAPI document, got: %.80s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/docs", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected docs status: got=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestRecoverPanic_Returns500(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/event/summary", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("expected masked internal error body, got: %s", rec.Body.String())
	}
}

func TestRouter_MetricsExposed(t *testing.T) {
	router, _ := newRouterForTest("", false)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("expected default runtime metrics in the scrape output")
	}
}
