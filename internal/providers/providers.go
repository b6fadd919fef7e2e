// Package providers holds the built-in authorization providers. Each one
// implements the authz check capability and decides its own method
// applicability from the mask it is handed: a binding whose mask excludes the
// request's method simply declines, letting the rest of the chain run.
package providers

import (
	"context"
	"strings"

	"github.com/bitPanG98/httpd/internal/authz"
)

// AllGranted unconditionally authorizes applicable requests. It doubles as the
// well-known default provider for scopes with no explicit requires.
type AllGranted struct{}

func (AllGranted) CheckAuthorization(_ context.Context, req *authz.Request, methods authz.MethodMask, _ string) authz.Verdict {
	if !methods.Contains(req.Method) {
		return authz.VerdictDenied
	}
	return authz.VerdictGranted
}

// AllDenied never authorizes. Useful as a terminal binding and in tests.
type AllDenied struct{}

func (AllDenied) CheckAuthorization(_ context.Context, _ *authz.Request, _ authz.MethodMask, _ string) authz.Verdict {
	return authz.VerdictDenied
}

// ValidUser authorizes any request that carries an identity, whoever it is.
type ValidUser struct{}

func (ValidUser) CheckAuthorization(_ context.Context, req *authz.Request, methods authz.MethodMask, _ string) authz.Verdict {
	if !methods.Contains(req.Method) {
		return authz.VerdictDenied
	}
	if req.Identity == "" {
		return authz.VerdictDenied
	}
	return authz.VerdictGranted
}

// User authorizes identities named in the requirement, e.g. "alice bob".
type User struct{}

func (User) CheckAuthorization(_ context.Context, req *authz.Request, methods authz.MethodMask, requirement string) authz.Verdict {
	if !methods.Contains(req.Method) || req.Identity == "" {
		return authz.VerdictDenied
	}
	for _, name := range strings.Fields(requirement) {
		if name == req.Identity {
			return authz.VerdictGranted
		}
	}
	return authz.VerdictDenied
}

// Scope authorizes requests whose token carries at least one of the scopes
// named in the requirement, separated by spaces or commas.
type Scope struct{}

func (Scope) CheckAuthorization(_ context.Context, req *authz.Request, methods authz.MethodMask, requirement string) authz.Verdict {
	if !methods.Contains(req.Method) {
		return authz.VerdictDenied
	}
	want := strings.FieldsFunc(requirement, func(r rune) bool {
		return r == ' ' || r == ','
	})
	for _, have := range req.Scopes {
		for _, w := range want {
			if have == w {
				return authz.VerdictGranted
			}
		}
	}
	return authz.VerdictDenied
}
