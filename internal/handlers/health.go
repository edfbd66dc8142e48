package handlers

import (
	"net/http"
	"time"

	"github.com/techstore/api/internal/services"
)

// HealthHandlers serves the liveness and readiness endpoints.
type HealthHandlers struct {
	system    services.SystemService
	clock     func() time.Time
	startedAt time.Time
}

// HealthOption customises the health handlers before construction.
type HealthOption func(*HealthHandlers)

// WithHealthSystemService wires the system service used by the readiness probe.
func WithHealthSystemService(system services.SystemService) HealthOption {
	return func(h *HealthHandlers) {
		h.system = system
	}
}

// WithHealthClock overrides the clock used in health payloads.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// NewHealthHandlers constructs health handlers with optional overrides.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{clock: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	h.startedAt = h.clock()
	return h
}

// Healthz reports process liveness. It never consults external dependencies.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    now.Sub(h.startedAt).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

// Readyz reports readiness. The database must respond; a mailer failure is
// surfaced as a degraded check but does not fail readiness, since order
// processing tolerates notification outages.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.system == nil {
		writeJSONResponse(w, http.StatusOK, map[string]any{"status": "ok"})
		return
	}

	report := h.system.Health(r.Context())

	checks := map[string]any{
		"database": checkStatus(report.Database),
		"mailer":   checkStatus(report.Mailer),
	}

	status := "ok"
	httpStatus := http.StatusOK
	switch {
	case !report.Database:
		status = "unavailable"
		httpStatus = http.StatusServiceUnavailable
	case !report.Mailer:
		status = "degraded"
	}

	writeJSONResponse(w, httpStatus, map[string]any{
		"status":    status,
		"checks":    checks,
		"timestamp": report.CheckedAt.UTC().Format(time.RFC3339),
	})
}

func checkStatus(ok bool) map[string]any {
	if ok {
		return map[string]any{"status": "ok"}
	}
	return map[string]any{"status": "degraded"}
}
