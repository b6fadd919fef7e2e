package providers

import (
	"fmt"
	"log/slog"

	"github.com/bitPanG98/httpd/internal/authz"
)

// Options configures the optional providers. Zero-value options register only
// the providers that need no external backing.
type Options struct {
	GroupFile string         // path to the group membership file; enables "group"
	OpenFGA   *OpenFGAConfig // enables "fga" when set
	Log       *slog.Logger
}

// Register installs the built-in providers into a registry. The "default"
// name resolves to AllGranted: a scope with no require directives stays open,
// it does not lock everyone out.
func Register(reg *authz.Registry, opts Options) error {
	reg.Register("all", AllGranted{})
	reg.Register("none", AllDenied{})
	reg.Register("valid-user", ValidUser{})
	reg.Register("user", User{})
	reg.Register("scope", Scope{})
	reg.Register("ip", IPAllow{})
	reg.Register(authz.DefaultProviderName, AllGranted{})

	if opts.GroupFile != "" {
		g, err := NewGroupFile(opts.GroupFile)
		if err != nil {
			return fmt.Errorf("group provider: %w", err)
		}
		reg.Register("group", g)
	}
	if opts.OpenFGA != nil {
		f, err := NewOpenFGA(*opts.OpenFGA, opts.Log)
		if err != nil {
			return fmt.Errorf("fga provider: %w", err)
		}
		reg.Register("fga", f)
	}
	return nil
}
