package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bitPanG98/httpd/internal/authz"
)

// cmdCheck evaluates one hypothetical request against the configured scopes
// without starting a server. Handy for validating a config change before
// deploying it.
func cmdCheck() *cobra.Command {
	var method string
	var user string
	var scopes string
	var remoteAddr string

	c := &cobra.Command{
		Use:   "check <path>",
		Short: "Evaluate authorization for a hypothetical request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			_, reg, scopeSet, err := loadEngine(cfgPath)
			if err != nil {
				return err
			}

			bindings := scopeSet.Match(path)
			if bindings == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not under any configured location: continue\n", path)
				return nil
			}

			req := &authz.Request{
				Identity:   user,
				Method:     strings.ToUpper(method),
				Path:       path,
				RemoteAddr: remoteAddr,
			}
			if scopes != "" {
				req.Scopes = strings.Fields(scopes)
			}

			eval := authz.NewEvaluator(reg, nil)
			eval.OnAttempt = func(name string, v authz.Verdict) {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-12s -> %s\n", name, v)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s as %q (auth required for %s: %v)\n",
				req.Method, path, user, req.Method, bindings.RequiresAuth(req.Method))
			verdict := eval.Evaluate(cmd.Context(), req, bindings)
			fmt.Fprintf(cmd.OutOrStdout(), "outcome: %s\n", authz.MapVerdict(verdict))
			return nil
		},
	}
	c.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method")
	c.Flags().StringVarP(&user, "user", "u", "", "request identity, empty for anonymous")
	c.Flags().StringVar(&scopes, "scopes", "", "space-separated token scopes")
	c.Flags().StringVar(&remoteAddr, "remote-addr", "203.0.113.1", "client address")
	return c
}
