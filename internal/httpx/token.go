package httpx

import "strings"

// ExtractBearerToken pulls the token out of an Authorization header value.
func ExtractBearerToken(authz string) (string, bool) {
	const prefix = "Bearer "
	if authz == "" || !strings.HasPrefix(authz, prefix) {
		return "", false
	}
	return strings.TrimSpace(authz[len(prefix):]), true
}
