package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/spf13/cobra"

	"github.com/bitPanG98/httpd/internal/authz"
	"github.com/bitPanG98/httpd/internal/config"
	"github.com/bitPanG98/httpd/internal/providers"
	"github.com/bitPanG98/httpd/internal/server"
)

func cmdServe() *cobra.Command {
	var listen string
	var enableCORS bool
	var devNoStore bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve files with per-location authorization",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, scopes, err := loadEngine(cfgPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			setupLogger(cfg.LogJSON)

			keys, err := loadBearerKeys(cfg)
			if err != nil {
				return err
			}

			h := server.Build(server.Deps{
				Registry:   reg,
				Scopes:     scopes,
				BearerKeys: keys,
				Root:       http.FileServer(http.Dir(cfg.Root)),
			}, server.Options{
				EnableCORS: enableCORS,
				DevNoStore: devNoStore,
				Realm:      cfg.Realm,
				AuthScheme: cfg.AuthScheme,
			})

			slog.Info("listening", "addr", cfg.Listen, "root", cfg.Root,
				"locations", len(cfg.Locations))
			return http.ListenAndServe(cfg.Listen, h)
		},
	}
	c.Flags().StringVar(&listen, "listen", "", "listen address, overrides config")
	c.Flags().BoolVar(&enableCORS, "cors", false, "enable permissive CORS")
	c.Flags().BoolVar(&devNoStore, "no-store", false, "send no-store cache headers")
	return c
}

// loadEngine loads the config and publishes the frozen scope bindings: every
// require directive is resolved and validated here, before a single request
// is served.
func loadEngine(path string) (*config.Config, *authz.Registry, *config.Scopes, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}

	reg := authz.NewRegistry()
	opts := providers.Options{GroupFile: cfg.GroupFile, Log: slog.Default()}
	if cfg.OpenFGA != nil {
		opts.OpenFGA = &providers.OpenFGAConfig{
			APIURL:  cfg.OpenFGA.APIURL,
			StoreID: cfg.OpenFGA.StoreID,
			ModelID: cfg.OpenFGA.ModelID,
		}
	}
	if err := providers.Register(reg, opts); err != nil {
		return nil, nil, nil, err
	}

	scopes, err := config.BuildScopes(cfg.Locations, reg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("authorization config: %w", err)
	}
	return cfg, reg, scopes, nil
}

func loadBearerKeys(cfg *config.Config) (jwk.Set, error) {
	if cfg.JWKSFile == "" {
		return nil, nil
	}
	set, err := jwk.ReadFile(cfg.JWKSFile)
	if err != nil {
		return nil, fmt.Errorf("load jwks %s: %w", cfg.JWKSFile, err)
	}
	return set, nil
}

func setupLogger(logJSON bool) {
	var h slog.Handler
	if logJSON {
		h = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		h = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(h))
}
