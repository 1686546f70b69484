// Package health serves the liveness and readiness endpoints of the
// pantryvox server.
//
//   - GET /healthz — liveness. The process is up; the body reports uptime.
//   - GET /readyz  — readiness. 200 only while every registered collaborator
//     [Probe] passes.
//
// Readiness responses carry one entry per probe with its observed latency, so
// a degraded enrichment backend is visible from the probe output alone.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"
)

// probeTimeout bounds a single readiness probe. Slower than this and the
// collaborator is not ready, whatever it eventually answers.
const probeTimeout = 3 * time.Second

// Probe checks one enrichment collaborator or other dependency.
type Probe struct {
	// Name labels the dependency in the response ("shelf", "classify").
	Name string

	// Check pings the dependency. nil means ready; it must honour ctx.
	Check func(ctx context.Context) error
}

// probeStatus is one probe's entry in the readiness response.
type probeStatus struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// response is the body of both endpoints.
type response struct {
	Status string                 `json:"status"`
	Uptime string                 `json:"uptime,omitempty"`
	Probes map[string]probeStatus `json:"probes,omitempty"`
}

// Handler answers the liveness and readiness endpoints. The probe list is
// fixed at construction; serving is safe for concurrent use.
type Handler struct {
	probes  []Probe
	started time.Time
}

// New returns a [Handler] that evaluates probes, in order, on every /readyz
// request.
func New(probes ...Probe) *Handler {
	return &Handler{probes: slices.Clone(probes), started: time.Now()}
}

// Healthz reports liveness. A process that can answer HTTP is alive; the
// uptime lets an operator spot crash loops from the probe alone.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, response{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

// Readyz runs every probe under a [probeTimeout] deadline derived from the
// request context and answers 503 as soon as any of them reports a failure.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	results := make(map[string]probeStatus, len(h.probes))
	ready := true

	for _, p := range h.probes {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		start := time.Now()
		err := p.Check(ctx)
		latency := time.Since(start)
		cancel()

		st := probeStatus{Status: "ok", Latency: latency.Round(time.Millisecond).String()}
		if err != nil {
			st.Status = "fail"
			st.Error = err.Error()
			ready = false
		}
		results[p.Name] = st
	}

	res := response{Status: "ok", Probes: results}
	code := http.StatusOK
	if !ready {
		res.Status = "fail"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, res)
}

// Register mounts both endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
