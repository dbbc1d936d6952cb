// Package config loads dreconcile settings from defaults, an optional YAML
// file and DRE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

// EnvPrefix is the prefix of every environment variable.
const EnvPrefix = "DRE"

// EnvConfigFile names the YAML file to load when no path is given.
const EnvConfigFile = "DRE_CONFIG_FILE"

// Config represents the complete application configuration
type Config struct {
	Reconcile ReconcileConfig `yaml:"reconcile" envconfig:"RECONCILE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Store     StoreConfig     `yaml:"store" envconfig:"STORE"`
}

// ReconcileConfig contains the taxonomy and filter settings
type ReconcileConfig struct {
	StatusMarker        string   `yaml:"status_marker" split_words:"true"`
	Stoplist            []string `yaml:"stoplist" split_words:"true"`
	WatchList           []string `yaml:"watch_list" split_words:"true"`
	TransferPrefixes    []string `yaml:"transfer_prefixes" split_words:"true"`
	ReimbursementPrefix string   `yaml:"reimbursement_prefix" split_words:"true"`
	FocusMonth          string   `yaml:"focus_month" split_words:"true"`
	RevenueSubgroups    []string `yaml:"revenue_subgroups" split_words:"true"`
	SamplePrefixes      []string `yaml:"sample_prefixes" split_words:"true"`
	TopOutOfScope       int      `yaml:"top_out_of_scope" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Format string `yaml:"format" split_words:"true"`
}

// StoreConfig contains snapshot database configuration
type StoreConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	rules := reconcile.DefaultRules()
	return &Config{
		Reconcile: ReconcileConfig{
			StatusMarker:        rules.StatusMarker,
			Stoplist:            rules.Stoplist,
			WatchList:           rules.WatchList,
			TransferPrefixes:    rules.TransferPrefixes,
			ReimbursementPrefix: rules.ReimbursementPrefix,
			FocusMonth:          rules.FocusMonth,
			RevenueSubgroups:    rules.RevenueSubgroups,
			SamplePrefixes:      rules.SamplePrefixes,
			TopOutOfScope:       rules.TopOutOfScope,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Store: StoreConfig{
			Path: "dreconcile.db",
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// DRE_CONFIG_FILE variable is consulted, and with neither set only the
// defaults and the environment apply. A named file that does not exist is
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Unset variables leave the current value alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile overlays the YAML file on top of the current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Reconcile.StatusMarker == "" {
		errs = append(errs, errors.New("reconcile.status_marker must not be empty"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	if err := c.Rules().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Rules converts the reconcile section into classifier rules.
func (c *Config) Rules() reconcile.Rules {
	rules := reconcile.DefaultRules()
	r := c.Reconcile
	rules.StatusMarker = r.StatusMarker
	rules.Stoplist = append([]string(nil), r.Stoplist...)
	rules.WatchList = append([]string(nil), r.WatchList...)
	rules.TransferPrefixes = append([]string(nil), r.TransferPrefixes...)
	rules.ReimbursementPrefix = r.ReimbursementPrefix
	rules.FocusMonth = r.FocusMonth
	rules.RevenueSubgroups = append([]string(nil), r.RevenueSubgroups...)
	rules.SamplePrefixes = append([]string(nil), r.SamplePrefixes...)
	rules.TopOutOfScope = r.TopOutOfScope
	return rules
}
