package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/service"
	"github.com/dharmil18/betterbank-auth-service/pkg/httpx"
	"github.com/dharmil18/betterbank-auth-service/pkg/slogx"

	_ "github.com/dharmil18/betterbank-auth-service/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// DefaultRequestTimeout bounds the synchronous part of a request.
const DefaultRequestTimeout = 15 * time.Second

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Auth service.Authenticator

	// Readiness dependencies. Guard is optional.
	Journal  Pinger
	Provider Pinger
	Guard    Pinger

	AuthLimit   httpx.RateLimitConfig
	HealthLimit httpx.RateLimitConfig
}

func NewRouter(buildVersion string, requestTimeout time.Duration, logger *slog.Logger) *Router {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		AuthLimit:    httpx.StrictLimit,
		HealthLimit:  httpx.LenientLimit,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Timeout(requestTimeout),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			BetterBank Authentication Service API
//	@version		0.1.0
//	@description	Registration and login for BetterBank. Accounts live in Keycloak; this service checks for
//	@description	existing accounts, provisions new ones in the background and exchanges credentials for tokens.
//
//	@contact.name	BetterBank Team
//	@contact.url	https://github.com/dharmil18/betterbank-auth-service
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential endpoints - strict rate limit per IP and path so register
	// traffic cannot starve login.
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(&RegisterHandler{Auth: r.Auth},
			httpx.RateLimitByIPAndPath(r.AuthLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(&LoginHandler{Auth: r.Auth},
			httpx.RateLimitByIPAndPath(r.AuthLimit),
		),
	)

	r.Mux.Handle("GET /api/auth/test",
		httpx.Chain(http.HandlerFunc(PingHandler),
			httpx.RateLimitByIP(r.HealthLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.HealthLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.Journal, r.Provider, r.Guard),
			httpx.RateLimitByIP(r.HealthLimit),
		),
	)
}
