package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Limit is a method-restricting block: the nested require directives apply
// only to the listed methods, like a <Limit> section.
type Limit struct {
	Methods []string `yaml:"methods" mapstructure:"methods"`
	Require []string `yaml:"require" mapstructure:"require"`
}

// Location protects one path prefix. Require entries are raw directives whose
// first token is the provider name and whose remainder is the requirement
// string. A location with neither requires nor limits inherits its nearest
// configured ancestor's bindings.
type Location struct {
	Path    string   `yaml:"path"    mapstructure:"path"`
	Require []string `yaml:"require" mapstructure:"require"`
	Limit   []Limit  `yaml:"limit"   mapstructure:"limit"`
}

type OpenFGA struct {
	APIURL  string `yaml:"api_url"  mapstructure:"api_url"`
	StoreID string `yaml:"store_id" mapstructure:"store_id"`
	ModelID string `yaml:"model_id" mapstructure:"model_id"`
}

type Config struct {
	Listen     string     `yaml:"listen"      mapstructure:"listen"`
	Root       string     `yaml:"root"        mapstructure:"root"`
	Realm      string     `yaml:"realm"       mapstructure:"realm"`
	AuthScheme string     `yaml:"auth_scheme" mapstructure:"auth_scheme"` // "basic" or "bearer"
	LogJSON    bool       `yaml:"log_json"    mapstructure:"log_json"`
	GroupFile  string     `yaml:"group_file"  mapstructure:"group_file"`
	JWKSFile   string     `yaml:"jwks_file"   mapstructure:"jwks_file"`
	OpenFGA    *OpenFGA   `yaml:"openfga"     mapstructure:"openfga"`
	Locations  []Location `yaml:"locations"   mapstructure:"locations"`
}

// Load reads the config file at path, applying defaults and HTTPD_* env
// overrides. A missing file is not an error; the defaults serve a plain
// unprotected file server.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("httpd")
		v.AddConfigPath(".")
	}
	v.SetConfigType("yaml")

	v.SetDefault("listen", ":8080")
	v.SetDefault("root", "./public")
	v.SetDefault("realm", "restricted")
	v.SetDefault("auth_scheme", "basic")
	v.SetDefault("log_json", false)

	v.SetEnvPrefix("HTTPD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file (searched or explicit) falls back to defaults;
		// anything else is a real fault.
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if c.AuthScheme != "basic" && c.AuthScheme != "bearer" {
		return nil, fmt.Errorf("auth_scheme must be \"basic\" or \"bearer\", got %q", c.AuthScheme)
	}
	return &c, nil
}

// ParseRequire splits a raw require directive into provider name and
// requirement string. The requirement may be empty ("valid-user").
func ParseRequire(raw string) (provider, requirement string, err error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", "", errors.New("empty require directive")
	}
	return fields[0], strings.Join(fields[1:], " "), nil
}
