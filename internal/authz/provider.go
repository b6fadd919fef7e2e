package authz

import "context"

// Request carries the per-request facts the engine and providers read. It is
// created for one inbound request and discarded once an outcome is produced;
// it is never shared between evaluator runs.
type Request struct {
	Identity   string   // authenticated user, empty when anonymous
	Scopes     []string // token scopes, when the identity came from a token
	Method     string   // HTTP method
	Path       string   // resource path
	RemoteAddr string   // client address, host or host:port
}

// Provider is the sole call surface the evaluator uses. The method mask is
// passed through uninterpreted: it is the provider's job to decide whether it
// applies to the request's method, not the evaluator's.
type Provider interface {
	CheckAuthorization(ctx context.Context, req *Request, methods MethodMask, requirement string) Verdict
}

// DefaultProviderName is the well-known provider consulted when a scope has no
// explicit bindings.
const DefaultProviderName = "default"

// Registry maps provider names to capabilities. It is populated once at
// startup and read-only afterwards, so concurrent request-time lookups need no
// locking. Capabilities are stored untyped; binding validates at load time
// that the resolved capability actually implements Provider.
type Registry struct {
	capabilities map[string]any
}

func NewRegistry() *Registry {
	return &Registry{capabilities: make(map[string]any)}
}

// Register adds a capability under a name, replacing any previous entry.
func (r *Registry) Register(name string, capability any) {
	r.capabilities[name] = capability
}

// Resolve looks up a capability by name.
func (r *Registry) Resolve(name string) (any, bool) {
	c, ok := r.capabilities[name]
	return c, ok
}

// Names lists the registered provider names, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.capabilities))
	for name := range r.capabilities {
		names = append(names, name)
	}
	return names
}
