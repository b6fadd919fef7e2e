package mw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/bitPanG98/httpd/internal/httpx"
)

// Identity is what the authorization engine consumes: who the request claims
// to be, plus any token scopes. Establishing the identity (authentication
// proper) happens upstream of the engine; this middleware only surfaces what
// the request carries.
type Identity struct {
	User   string
	Scopes []string
}

type identityKey struct{}

func WithIdentity(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey{}, id))
}

// IdentityFromContext returns the request identity, if any was extracted.
func IdentityFromContext(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey{}).(Identity)
	return id, ok
}

type identityOpts struct {
	keys jwk.Set
	log  *slog.Logger
}

type IdentityOption func(*identityOpts)

// WithBearerKeys enables Bearer token extraction, verified against the JWK
// set. Without it, Bearer headers are ignored.
func WithBearerKeys(set jwk.Set) IdentityOption {
	return func(o *identityOpts) { o.keys = set }
}

func WithIdentityLogger(log *slog.Logger) IdentityOption {
	return func(o *identityOpts) { o.log = log }
}

// Identify extracts the request identity from Basic or Bearer credentials and
// stores it in the context. Requests without usable credentials continue
// anonymously; whether that is acceptable is the authorization engine's call,
// not this middleware's.
func Identify(opts ...IdentityOption) func(http.Handler) http.Handler {
	o := identityOpts{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := extractIdentity(r, &o); ok {
				r = WithIdentity(r, id)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractIdentity(r *http.Request, o *identityOpts) (Identity, bool) {
	header := r.Header.Get("Authorization")

	if raw, ok := httpx.ExtractBearerToken(header); ok && o.keys != nil {
		tok, err := jwt.Parse([]byte(raw), jwt.WithKeySet(o.keys), jwt.WithValidate(true))
		if err != nil {
			o.log.Debug("bearer token rejected", "err", err)
			return Identity{}, false
		}
		sub, ok := tok.Subject()
		if !ok || sub == "" {
			o.log.Debug("bearer token has no subject")
			return Identity{}, false
		}
		return Identity{User: sub, Scopes: tokenScopes(tok)}, true
	}

	if user, _, ok := r.BasicAuth(); ok && user != "" {
		return Identity{User: user}, true
	}

	return Identity{}, false
}

func tokenScopes(tok jwt.Token) []string {
	var scope string
	if err := tok.Get("scope", &scope); err == nil {
		return strings.Fields(scope)
	}
	var scopes []string
	if err := tok.Get("scopes", &scopes); err == nil {
		return scopes
	}
	return nil
}
