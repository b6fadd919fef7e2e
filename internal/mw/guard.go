package mw

import (
	"fmt"
	"net/http"

	"github.com/bitPanG98/httpd/internal/authz"
	"github.com/bitPanG98/httpd/internal/httpx"
)

// ScopeSource resolves the published bindings protecting a path. A nil result
// means the path is not under any configured scope.
type ScopeSource interface {
	Match(path string) *authz.Bindings
}

// Guard is the authorization gate of the request pipeline. Per request it
// looks up the frozen scope, runs the evaluator, and translates the outcome:
// Continue passes through, ChallengeAndDeny answers 401 with the configured
// challenge, ServerError answers a generic 500.
func Guard(eval *authz.Evaluator, mapper *authz.Mapper, scopes ScopeSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := scopes.Match(r.URL.Path)
			if scope == nil {
				// Unconfigured paths carry no authorization at all.
				next.ServeHTTP(w, r)
				return
			}

			req := &authz.Request{
				Method:     r.Method,
				Path:       r.URL.Path,
				RemoteAddr: r.RemoteAddr,
			}
			if id, ok := IdentityFromContext(r); ok {
				req.Identity = id.User
				req.Scopes = id.Scopes
			}

			verdict := eval.Evaluate(r.Context(), req, scope)
			switch mapper.Apply(w, r, req, verdict) {
			case authz.OutcomeContinue:
				next.ServeHTTP(w, r)
			case authz.OutcomeChallengeAndDeny:
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
			default:
				// Whatever went wrong was already reported by the failing
				// provider; the client gets nothing more specific.
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
		})
	}
}

// BasicChallenge issues a Basic WWW-Authenticate challenge for the realm.
func BasicChallenge(realm string) authz.Challenger {
	return authz.ChallengerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", realm))
	})
}

// BearerChallenge issues a Bearer WWW-Authenticate challenge for the realm.
func BearerChallenge(realm string) authz.Challenger {
	return authz.ChallengerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf("Bearer realm=%q", realm))
	})
}
