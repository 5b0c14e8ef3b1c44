package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"saasbase.org/internal/auth"
	"saasbase.org/internal/obs"
	"saasbase.org/internal/org"
)

// ReadyProbe checks backing storage for the readiness endpoint.
type ReadyProbe struct {
	Ping func(ctx context.Context) error
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.Ping == nil {
		return nil
	}
	return rp.Ping(ctx)
}

// Options carries the collaborators the HTTP layer dispatches to.
type Options struct {
	Auth    *auth.Service
	Orgs    *org.Service
	Ready   ReadyProbe
	Version string

	// Login rate limiting (token bucket per client IP).
	RateLimitBurst     int
	RateLimitPerSecond int
}

// API is the HTTP layer.
type API struct {
	router  *mux.Router
	auth    *auth.Service
	orgs    *org.Service
	ready   ReadyProbe
	version string
}

// New wires routes and middleware.
func New(opts Options) *API {
	a := &API{
		router:  mux.NewRouter().StrictSlash(true),
		auth:    opts.Auth,
		orgs:    opts.Orgs,
		ready:   opts.Ready,
		version: opts.Version,
	}

	a.router.Use(RequestID, Recoverer, Logging)

	a.router.HandleFunc("/healthz", a.healthz).Methods(http.MethodGet)
	a.router.HandleFunc("/readyz", a.readyz).Methods(http.MethodGet)
	a.router.HandleFunc("/v1/info", a.info).Methods(http.MethodGet)
	a.router.Handle("/metrics", obs.Handler()).Methods(http.MethodGet)

	login := http.HandlerFunc(a.handleLogin)
	a.router.Handle("/v1/auth/login",
		RateLimit(login, opts.RateLimitBurst, opts.RateLimitPerSecond)).Methods(http.MethodPost)
	a.router.HandleFunc("/v1/auth/refresh", a.handleRefresh).Methods(http.MethodPost)
	a.router.HandleFunc("/v1/auth/me", a.handleMe).Methods(http.MethodGet)

	a.router.HandleFunc("/v1/organisations", a.handleListOrganisations).Methods(http.MethodGet)
	a.router.HandleFunc("/v1/organisations", a.handleCreateOrganisation).Methods(http.MethodPost)
	a.router.HandleFunc("/v1/organisations/{id}", a.handleGetOrganisation).Methods(http.MethodGet)
	a.router.HandleFunc("/v1/organisations/{id}", a.handleUpdateOrganisation).Methods(http.MethodPatch)
	a.router.HandleFunc("/v1/organisations/{id}", a.handleDeleteOrganisation).Methods(http.MethodDelete)

	return a
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.withAuth(a.router))
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "saasbase-api",
		"version": a.version,
	})
}

func (a *API) readyz(w http.ResponseWriter, r *http.Request) {
	if err := a.ready.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (a *API) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "saasbase-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
