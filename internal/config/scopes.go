package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bitPanG98/httpd/internal/authz"
)

// Scope pairs a path prefix with its published bindings.
type Scope struct {
	Path     string
	Bindings *authz.Bindings
}

// Scopes is the load-time product handed to the request path: an immutable
// set of protected prefixes with longest-prefix matching. Built once per
// configuration generation, then read concurrently without locking.
type Scopes struct {
	// ordered longest path first so the first prefix hit is the best one
	list []Scope
}

// Match returns the bindings of the most specific scope covering path, or nil
// when no scope covers it.
func (s *Scopes) Match(path string) *authz.Bindings {
	for _, sc := range s.list {
		if covers(sc.Path, path) {
			return sc.Bindings
		}
	}
	return nil
}

// All returns the scopes, most specific first.
func (s *Scopes) All() []Scope { return s.list }

func covers(prefix, path string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// BuildScopes resolves every location's require directives against the
// registry and freezes them. A location without directives of its own
// inherits the bindings of its nearest configured ancestor, wholesale. Any
// unresolvable directive is a load-time fault that prevents publishing.
func BuildScopes(locations []Location, reg *authz.Registry) (*Scopes, error) {
	// Shallow paths first so ancestors are published before descendants.
	ordered := make([]Location, len(locations))
	copy(ordered, locations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Path) < len(ordered[j].Path)
	})

	built := make([]Scope, 0, len(ordered))
	for _, loc := range ordered {
		if !strings.HasPrefix(loc.Path, "/") {
			return nil, fmt.Errorf("location path %q must start with /", loc.Path)
		}
		own, err := buildBindings(loc, reg)
		if err != nil {
			return nil, fmt.Errorf("location %s: %w", loc.Path, err)
		}

		merged := authz.Merge(nearestAncestor(built, loc.Path), own)
		if merged == nil {
			// No directives and nothing to inherit: the location is still a
			// configured scope, with an empty binding list.
			merged = own
		}
		built = append(built, Scope{Path: loc.Path, Bindings: merged})
	}

	// Longest prefix first for matching.
	sort.SliceStable(built, func(i, j int) bool {
		return len(built[i].Path) > len(built[j].Path)
	})
	return &Scopes{list: built}, nil
}

func nearestAncestor(built []Scope, path string) *authz.Bindings {
	var best *Scope
	for i := range built {
		sc := &built[i]
		if sc.Path != path && covers(sc.Path, path) {
			if best == nil || len(sc.Path) > len(best.Path) {
				best = sc
			}
		}
	}
	if best == nil {
		return nil
	}
	return best.Bindings
}

func buildBindings(loc Location, reg *authz.Registry) (*authz.Bindings, error) {
	b := authz.NewBuilder(reg)
	for _, raw := range loc.Require {
		if err := bindDirective(b, raw, authz.AllMethods); err != nil {
			return nil, err
		}
	}
	for _, lim := range loc.Limit {
		mask, err := authz.MaskOf(lim.Methods...)
		if err != nil {
			return nil, err
		}
		for _, raw := range lim.Require {
			if err := bindDirective(b, raw, mask); err != nil {
				return nil, err
			}
		}
	}
	return b.Freeze(), nil
}

func bindDirective(b *authz.Builder, raw string, mask authz.MethodMask) error {
	provider, requirement, err := ParseRequire(raw)
	if err != nil {
		return err
	}
	if err := b.Bind(provider, requirement, mask); err != nil {
		return fmt.Errorf("require %q: %w", raw, err)
	}
	return nil
}
