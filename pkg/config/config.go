// Package config loads transformer configuration from YAML files and
// the environment, mirroring the shape:
//
//	semantics: PATCH
//	replace_existing: false
//	system_actor: urn:li:corpUser:termsync
//	store: ./termsync.db
//	term_pattern:
//	  rules:
//	    - pattern: ".*email.*"
//	      terms: ["urn:li:glossaryTerm:Classification.PII"]
//	    - pattern: ".*"
//	      terms: ["urn:li:glossaryTerm:Catalogued"]
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/reconcile"
	"github.com/metaglot/termsync/pkg/supplier"
	"github.com/metaglot/termsync/pkg/transformer"
)

// envPrefix namespaces environment overrides, e.g. TERMSYNC_SEMANTICS.
const envPrefix = "TERMSYNC"

// TermPattern is the pattern-table section of the config file.
type TermPattern struct {
	Rules []supplier.Rule `mapstructure:"rules"`
}

// Config is the on-disk transformer configuration.
type Config struct {
	Semantics       string      `mapstructure:"semantics"`
	ReplaceExisting bool        `mapstructure:"replace_existing"`
	SystemActor     string      `mapstructure:"system_actor"`
	Store           string      `mapstructure:"store"`
	TermPattern     TermPattern `mapstructure:"term_pattern"`
}

// Default returns the configuration applied when a file sets nothing.
func Default() *Config {
	return &Config{
		Semantics: reconcile.Overwrite.String(),
	}
}

// Load reads configuration from the given file path. An empty path
// loads defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("semantics", reconcile.Overwrite.String())
	v.SetDefault("replace_existing", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("config", "decoding "+path, err)
	}

	return cfg, nil
}

// Policy parses the configured merge semantics.
func (c *Config) Policy() (reconcile.Policy, error) {
	return reconcile.ParsePolicy(c.Semantics)
}

// Transformer builds the transformer configuration, compiling the
// pattern table into a supplier. A config without rules yields a
// supplier that attaches no terms.
func (c *Config) Transformer() (transformer.Config, error) {
	policy, err := c.Policy()
	if err != nil {
		return transformer.Config{}, err
	}

	var sup supplier.Supplier
	if len(c.TermPattern.Rules) > 0 {
		sup, err = supplier.NewPattern(c.TermPattern.Rules)
		if err != nil {
			return transformer.Config{}, errors.NewConfigError("term_pattern", "compiling rules", err)
		}
	} else {
		sup = supplier.None()
	}

	return transformer.Config{
		Semantics:       policy,
		ReplaceExisting: c.ReplaceExisting,
		Supplier:        sup,
		SystemActor:     c.SystemActor,
	}, nil
}
