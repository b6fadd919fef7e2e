package authz

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProvider is returned by Bind when no capability is registered
	// under the directive's provider name.
	ErrUnknownProvider = errors.New("unknown authorization provider")

	// ErrUnsupportedCapability is returned by Bind when the registered
	// capability does not implement the check interface.
	ErrUnsupportedCapability = errors.New("provider does not support authorization checks")
)

// Binding is one configured (provider, requirement, method mask) triple within
// a scope. The provider reference is resolved and validated at bind time and
// immutable afterwards.
type Binding struct {
	ProviderName string
	Requirement  string
	Methods      MethodMask

	provider Provider
}

// Provider returns the resolved check capability.
func (b Binding) Provider() Provider { return b.provider }

// Bindings is the frozen, ordered binding list of one scope. Declaration order
// is the evaluation order. The zero value is a valid empty scope ("no explicit
// require directives"). Once published it is never mutated, so any number of
// request handlers may read it concurrently.
type Bindings struct {
	list []Binding
}

// All exposes the ordered bindings for introspection.
func (s *Bindings) All() []Binding {
	if s == nil {
		return nil
	}
	return s.list
}

// Len returns the number of bindings in the scope.
func (s *Bindings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.list)
}

// RequiresAuth reports whether any binding's mask covers the method. It is a
// cheap pre-check for upstream collaborators and never runs providers. An
// empty scope requires nothing, whatever the method.
func (s *Bindings) RequiresAuth(method string) bool {
	if s == nil {
		return false
	}
	for _, b := range s.list {
		if b.Methods.Contains(method) {
			return true
		}
	}
	return false
}

// Merge applies the scope inheritance rule: a child with its own bindings
// replaces the parent's wholesale, a child with none inherits the parent's
// verbatim. There is no per-entry merge.
func Merge(parent, child *Bindings) *Bindings {
	if child.Len() > 0 {
		return child
	}
	return parent
}

// Builder accumulates a scope's bindings at configuration load time and
// freezes them into an immutable Bindings before any request-time read.
type Builder struct {
	reg  *Registry
	list []Binding
}

func NewBuilder(reg *Registry) *Builder {
	return &Builder{reg: reg}
}

// Bind resolves a provider by name, validates its check capability, and
// appends the binding at the tail. Order of Bind calls is preserved exactly;
// duplicates are kept.
func (b *Builder) Bind(providerName, requirement string, methods MethodMask) error {
	capability, ok := b.reg.Resolve(providerName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, providerName)
	}
	p, ok := capability.(Provider)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedCapability, providerName)
	}
	b.list = append(b.list, Binding{
		ProviderName: providerName,
		Requirement:  requirement,
		Methods:      methods,
		provider:     p,
	})
	return nil
}

// Freeze publishes the accumulated list. The builder must not be reused after
// freezing; the returned Bindings never changes.
func (b *Builder) Freeze() *Bindings {
	list := make([]Binding, len(b.list))
	copy(list, b.list)
	b.list = nil
	return &Bindings{list: list}
}
