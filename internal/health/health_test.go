package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pantryvox/pantryvox/internal/health"
)

// probeBody mirrors the JSON shape of the endpoints for decoding in tests.
type probeBody struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Probes map[string]struct {
		Status  string `json:"status"`
		Error   string `json:"error"`
		Latency string `json:"latency"`
	} `json:"probes"`
}

func get(t *testing.T, fn http.HandlerFunc, path string) (int, probeBody) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	fn(rec, req)

	var body probeBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s body: %v", path, err)
	}
	return rec.Code, body
}

func TestHealthz_ReportsAliveWithUptime(t *testing.T) {
	t.Parallel()
	h := health.New()

	code, body := get(t, h.Healthz, "/healthz")
	if code != http.StatusOK {
		t.Errorf("status = %d, want %d", code, http.StatusOK)
	}
	if body.Status != "ok" {
		t.Errorf("body status = %q, want ok", body.Status)
	}
	if body.Uptime == "" {
		t.Error("healthz body missing uptime")
	}
}

func TestReadyz_AllCollaboratorsReady(t *testing.T) {
	t.Parallel()
	h := health.New(
		health.Probe{Name: "shelf", Check: func(context.Context) error { return nil }},
		health.Probe{Name: "classify", Check: func(context.Context) error { return nil }},
	)

	code, body := get(t, h.Readyz, "/readyz")
	if code != http.StatusOK {
		t.Errorf("status = %d, want %d", code, http.StatusOK)
	}
	if body.Status != "ok" {
		t.Errorf("body status = %q, want ok", body.Status)
	}
	for _, name := range []string{"shelf", "classify"} {
		p, found := body.Probes[name]
		if !found {
			t.Errorf("probe %q missing from response", name)
			continue
		}
		if p.Status != "ok" {
			t.Errorf("probe %q status = %q, want ok", name, p.Status)
		}
		if p.Latency == "" {
			t.Errorf("probe %q missing latency", name)
		}
	}
}

func TestReadyz_FailingCollaboratorReturns503(t *testing.T) {
	t.Parallel()
	h := health.New(
		health.Probe{Name: "shelf", Check: func(context.Context) error {
			return errors.New("shelf postgres: connect: connection refused")
		}},
		health.Probe{Name: "classify", Check: func(context.Context) error { return nil }},
	)

	code, body := get(t, h.Readyz, "/readyz")
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", code, http.StatusServiceUnavailable)
	}
	if body.Status != "fail" {
		t.Errorf("body status = %q, want fail", body.Status)
	}
	if got := body.Probes["shelf"].Error; got != "shelf postgres: connect: connection refused" {
		t.Errorf("shelf probe error = %q", got)
	}
	if body.Probes["classify"].Status != "ok" {
		t.Errorf("classify probe = %q, want ok (one failure must not mask the rest)", body.Probes["classify"].Status)
	}
}

func TestReadyz_NoProbesIsReady(t *testing.T) {
	t.Parallel()
	h := health.New()

	code, body := get(t, h.Readyz, "/readyz")
	if code != http.StatusOK || body.Status != "ok" {
		t.Errorf("got %d / %q, want 200 / ok", code, body.Status)
	}
}

func TestReadyz_ProbeSeesCancelledRequestContext(t *testing.T) {
	t.Parallel()
	h := health.New(
		health.Probe{Name: "shelf", Check: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest("GET", "/readyz", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Readyz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRegister_MountsBothEndpoints(t *testing.T) {
	t.Parallel()
	h := health.New(
		health.Probe{Name: "shelf", Check: func(context.Context) error { return nil }},
	)

	mux := http.NewServeMux()
	h.Register(mux)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Errorf("GET %s Content-Type = %q", path, ct)
		}
	}
}
