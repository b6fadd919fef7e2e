package providers

import (
	"context"
	"net"
	"net/netip"
	"strings"

	"github.com/bitPanG98/httpd/internal/authz"
)

// IPAllow authorizes by client address. The requirement is a space-separated
// list of addresses and CIDR prefixes, e.g. "10.0.0.0/8 192.0.2.7". A
// requirement entry that fails to parse is a provider-internal fault and
// yields an Error verdict rather than silently matching nothing.
type IPAllow struct{}

func (IPAllow) CheckAuthorization(_ context.Context, req *authz.Request, methods authz.MethodMask, requirement string) authz.Verdict {
	if !methods.Contains(req.Method) {
		return authz.VerdictDenied
	}

	host := req.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return authz.VerdictDenied
	}
	addr = addr.Unmap()

	for _, entry := range strings.Fields(requirement) {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return authz.VerdictError
			}
			if prefix.Contains(addr) {
				return authz.VerdictGranted
			}
			continue
		}
		allowed, err := netip.ParseAddr(entry)
		if err != nil {
			return authz.VerdictError
		}
		if allowed.Unmap() == addr {
			return authz.VerdictGranted
		}
	}
	return authz.VerdictDenied
}
