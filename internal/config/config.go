// Package config provides configuration loading for complianced.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (COMPLIANCED_JUDGE_API_KEY, COMPLIANCED_LOGGING_LEVEL, ...)
//  2. YAML config file
//  3. Hardcoded defaults
//
// Validation is fail-fast: a config a deployment cannot safely run with
// (bad provider, non-positive timeout) aborts startup instead of producing
// wrong verdicts later.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/markitbot/complianced/internal/judge"
	"github.com/markitbot/complianced/internal/logging"
)

// envPrefix namespaces complianced environment variables.
const envPrefix = "COMPLIANCED_"

// Secret is a credential string that never prints its value. Format and JSON
// output redact it; read the raw value with string(s).
type Secret string

// String implements fmt.Stringer.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// MarshalJSON redacts the value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Config is the full complianced configuration.
type Config struct {
	Logging      logging.Config     `koanf:"logging"`
	Jurisdiction JurisdictionConfig `koanf:"jurisdiction"`
	Judge        JudgeConfig        `koanf:"judge"`
	Gauntlet     GauntletConfig     `koanf:"gauntlet"`
}

// JurisdictionConfig controls reference-table loading.
type JurisdictionConfig struct {
	// TablePath overrides the embedded state table. Empty uses the
	// embedded defaults.
	TablePath string `koanf:"table_path"`
}

// JudgeConfig configures the judge-model client. Disabled deployments run
// the deterministic checks only.
type JudgeConfig struct {
	Enabled  bool           `koanf:"enabled"`
	Provider judge.Provider `koanf:"provider"`
	Model    string         `koanf:"model"`
	APIKey   Secret         `koanf:"api_key"`
	BaseURL  string         `koanf:"base_url"`
	Timeout  time.Duration  `koanf:"timeout"`
}

// GauntletConfig controls evaluator execution.
type GauntletConfig struct {
	// Concurrent fans evaluators out in parallel.
	Concurrent bool `koanf:"concurrent"`

	// EvaluatorTimeout bounds each judge round trip.
	EvaluatorTimeout time.Duration `koanf:"evaluator_timeout"`
}

// Default returns the hardcoded defaults.
func Default() *Config {
	return &Config{
		Logging: logging.Config{Level: "info", Format: "json"},
		Judge: JudgeConfig{
			Provider: judge.ProviderAnthropic,
			Timeout:  30 * time.Second,
		},
		Gauntlet: GauntletConfig{
			Concurrent:       true,
			EvaluatorTimeout: 45 * time.Second,
		},
	}
}

// Load builds a Config from the optional YAML file at path, then overrides
// with environment variables, then validates.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// COMPLIANCED_JUDGE_API_KEY -> judge.api_key
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		for _, section := range []string{"logging", "jurisdiction", "judge", "gauntlet"} {
			if strings.HasPrefix(s, section+"_") {
				return section + "." + strings.TrimPrefix(s, section+"_")
			}
		}
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot safely run with.
func (c *Config) Validate() error {
	if c.Judge.Enabled {
		if c.Judge.APIKey == "" {
			return fmt.Errorf("judge.api_key is required when the judge is enabled")
		}
		switch c.Judge.Provider {
		case judge.ProviderAnthropic, judge.ProviderOpenAI:
		default:
			return fmt.Errorf("unknown judge.provider %q", c.Judge.Provider)
		}
		if c.Judge.Timeout <= 0 {
			return fmt.Errorf("judge.timeout must be positive")
		}
	}
	if c.Gauntlet.EvaluatorTimeout <= 0 {
		return fmt.Errorf("gauntlet.evaluator_timeout must be positive")
	}
	return nil
}
