package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/bitPanG98/httpd/internal/authz"
	"github.com/bitPanG98/httpd/internal/config"
	"github.com/bitPanG98/httpd/internal/mw"
	"github.com/bitPanG98/httpd/internal/version"
)

type Options struct {
	EnableCORS bool
	DevNoStore bool
	Realm      string
	AuthScheme string // "basic" or "bearer"
}

type Deps struct {
	Registry   *authz.Registry
	Scopes     *config.Scopes
	BearerKeys jwk.Set      // optional, enables Bearer identity extraction
	Root       http.Handler // the protected resource handler, e.g. a file server
}

// Build assembles the request pipeline: baseline middleware, trace + logging,
// identity extraction, then the authorization guard in front of the resource
// handler. Health and version endpoints sit outside the guarded subtree.
func Build(d Deps, opts Options) http.Handler {
	r := chi.NewRouter()
	if opts.DevNoStore || os.Getenv("HTTPD_ENV") == "dev" {
		r.Use(mw.NoStore)
	}

	// baseline
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if opts.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// tracing + logger
	r.Use(mw.Trace())
	r.Use(mw.Logger(mw.LogOpts{
		SkipPaths:     []string{"/healthz", "/version"},
		RedactHeaders: []string{"Authorization"},
	}))

	r.Get("/healthz", healthCheckHandler)
	r.Get("/version", versionHandler)

	var challenger authz.Challenger
	if opts.AuthScheme == "bearer" {
		challenger = mw.BearerChallenge(opts.Realm)
	} else {
		challenger = mw.BasicChallenge(opts.Realm)
	}

	identify := []mw.IdentityOption{}
	if d.BearerKeys != nil {
		identify = append(identify, mw.WithBearerKeys(d.BearerKeys))
	}

	r.Group(func(g chi.Router) {
		g.Use(mw.Identify(identify...))
		g.Use(mw.Guard(
			authz.NewEvaluator(d.Registry, nil),
			authz.NewMapper(challenger, nil),
			d.Scopes,
		))
		g.Handle("/*", d.Root)
	})

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(version.Get())
}
