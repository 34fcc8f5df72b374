package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dharmil18/betterbank-auth-service/pkg/httpx"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readinessTimeout = 3 * time.Second

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the provisioning journal, the identity provider and,
//	@Description	when configured, the shared dispatch guard
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, db, provider, guard Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := &HealthChecks{}
		overallStatus := "ok"
		statusCode := http.StatusOK

		check := func(p Pinger) string {
			if err := p.Ping(ctx); err != nil {
				overallStatus = "degraded"
				statusCode = http.StatusServiceUnavailable
				return "error: " + err.Error()
			}
			return "ok"
		}

		checks.Database = check(db)
		checks.Provider = check(provider)
		if guard != nil {
			checks.Guard = check(guard)
		}

		httpx.WriteJSON(w, statusCode, HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
