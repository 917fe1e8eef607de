package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-maxsubmit/pkg/dom"
	"github.com/goliatone/go-maxsubmit/pkg/maxsubmit"
)

// EnvPrefix namespaces every environment variable read by Parse.
const EnvPrefix = "MAXSUBMIT_"

// Rules are the guard settings a file or form entry may supply. Zero values
// mean "not supplied".
type Rules struct {
	MaxCount   int    `json:"maxCount" yaml:"maxCount"`
	Message    string `json:"message" yaml:"message"`
	RadioScope string `json:"radioScope" yaml:"radioScope"`
}

// File is the on-disk configuration. Unknown keys are ignored.
type File struct {
	Rules     `yaml:",inline"`
	AssumeYes bool             `json:"assumeYes" yaml:"assumeYes"`
	Forms     map[string]Rules `json:"forms" yaml:"forms"`
}

// Env holds the environment overrides.
type Env struct {
	MaxCount   int        `env:"MAX_COUNT"`
	Message    string     `env:"MESSAGE"`
	RadioScope string     `env:"RADIO_SCOPE"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	AssumeYes  bool       `env:"ASSUME_YES"`
}

// Config combines file and environment settings.
type Config struct {
	File File
	Env  Env

	// Logger receives fallback warnings. Nil uses slog.Default.
	Logger *slog.Logger

	warnings []error
}

// Load reads the file at path, when path is not empty, and the process
// environment.
func Load(path string) (*Config, error) {
	var file File
	if strings.TrimSpace(path) != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	cfg := &Config{File: file}
	environ, err := ParseEnv(nil)
	if err != nil {
		cfg.warnings = append(cfg.warnings, err)
	}
	cfg.Env = environ
	return cfg, nil
}

// Warnings returns the problems Load recovered from, such as malformed
// environment values that were ignored.
func (c *Config) Warnings() []error {
	if c == nil {
		return nil
	}
	return append([]error(nil), c.warnings...)
}

// LoadFile reads and parses a JSON or YAML configuration file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseFile(data, path)
}

// ParseFile decodes data as JSON, then YAML. source names the payload in
// errors.
func ParseFile(data []byte, source string) (File, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return File{}, fmt.Errorf("config: file %s is empty", source)
	}

	var file File
	if err := json.Unmarshal(data, &file); err == nil {
		return file, nil
	}

	file = File{}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return file, nil
}

// ParseEnv reads MAXSUBMIT_* variables. A nil environ reads the process
// environment. On error the returned Env still holds every value that parsed;
// malformed ones are left zero, which means "not supplied".
func ParseEnv(environ map[string]string) (Env, error) {
	parsed, err := env.ParseAsWithOptions[Env](env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return parsed, fmt.Errorf("config: parse environment: %w", err)
	}
	return parsed, nil
}

// AssumeYes reports whether prompts should be answered automatically.
func (c *Config) AssumeYes() bool {
	return c != nil && (c.File.AssumeYes || c.Env.AssumeYes)
}

// ForForm resolves the guard configuration for form. File defaults are
// overridden by the form's entry (looked up by id, then name), and the
// environment overrides both. An unknown radio scope falls back to the form
// scope with a warning.
func (c *Config) ForForm(form *dom.Form) (maxsubmit.Config, error) {
	if c == nil {
		return maxsubmit.Config{}, errors.New("config: nil config")
	}

	rules := c.File.Rules
	if entry, ok := c.formRules(form); ok {
		rules = overlay(rules, entry)
	}
	rules = overlay(rules, Rules{
		MaxCount:   c.Env.MaxCount,
		Message:    c.Env.Message,
		RadioScope: c.Env.RadioScope,
	})

	scope, err := maxsubmit.ParseRadioScope(rules.RadioScope)
	if err != nil {
		c.logger().Warn("ignoring radio scope", "form", form.Label(), "error", err)
		scope = maxsubmit.RadioScopeForm
	}

	return maxsubmit.Config{
		MaxCount:        rules.MaxCount,
		ExceededMessage: rules.Message,
		RadioScope:      scope,
	}, nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Config) formRules(form *dom.Form) (Rules, bool) {
	if form == nil || len(c.File.Forms) == 0 {
		return Rules{}, false
	}
	for _, key := range []string{form.ID, form.Name} {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if entry, ok := c.File.Forms[key]; ok {
			return entry, true
		}
	}
	return Rules{}, false
}

func overlay(base, top Rules) Rules {
	if top.MaxCount > 0 {
		base.MaxCount = top.MaxCount
	}
	if strings.TrimSpace(top.Message) != "" {
		base.Message = top.Message
	}
	if strings.TrimSpace(top.RadioScope) != "" {
		base.RadioScope = top.RadioScope
	}
	return base
}
