package maxsubmit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-maxsubmit/pkg/confirm"
)

// DefaultMaxCount matches PHP's default max_input_vars.
const DefaultMaxCount = 1000

// DefaultExceededMessage is shown when no message template is configured.
const DefaultExceededMessage = "This form has too many fields for the server to accept.\n" +
	" Data may be lost if you submit. Are you sure you want to go ahead?"

// ConfirmFunc asks the user whether to submit a form carrying formCount
// parameters. Returning false cancels the submission.
type ConfirmFunc func(formCount int) bool

// RadioScope selects where radio groups are looked up when counting.
type RadioScope int

const (
	// RadioScopeForm counts radio groups among the bound form's descendants.
	RadioScopeForm RadioScope = iota
	// RadioScopeDocument counts radio groups across the whole document, the
	// way the original jQuery plugin did. Pages with several forms overcount.
	RadioScopeDocument
)

func (s RadioScope) String() string {
	switch s {
	case RadioScopeDocument:
		return "document"
	default:
		return "form"
	}
}

// ParseRadioScope converts "form" or "document" into a RadioScope. An empty
// string yields RadioScopeForm.
func ParseRadioScope(raw string) (RadioScope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "form":
		return RadioScopeForm, nil
	case "document", "page":
		return RadioScopeDocument, nil
	}
	return RadioScopeForm, fmt.Errorf("%w: %q", ErrUnknownRadioScope, raw)
}

// ParseMaxCount reads a decimal max count such as "500". It reports false for
// anything that is not a positive integer.
func ParseMaxCount(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Config is the per-binding configuration. Zero values mean "not supplied"
// and are replaced by defaults when a guard is built.
type Config struct {
	// MaxCount is the parameter count above which confirmation is required.
	MaxCount int
	// ExceededMessage may contain {max_count} and {form_count} placeholders.
	ExceededMessage string
	// Confirm overrides the confirmation UI entirely.
	Confirm ConfirmFunc
	// Prompter backs the default confirmation when Confirm is nil.
	Prompter confirm.Prompter
	// RadioScope selects radio group lookup scope.
	RadioScope RadioScope
}

// Option mutates a Config.
type Option func(*Config)

// WithMaxCount sets the threshold. Non-positive values are ignored.
func WithMaxCount(max int) Option {
	return func(cfg *Config) {
		if max > 0 {
			cfg.MaxCount = max
		}
	}
}

// WithExceededMessage sets the confirmation message template.
func WithExceededMessage(template string) Option {
	return func(cfg *Config) {
		if strings.TrimSpace(template) != "" {
			cfg.ExceededMessage = template
		}
	}
}

// WithConfirm injects a confirmation capability.
func WithConfirm(fn ConfirmFunc) Option {
	return func(cfg *Config) {
		if fn != nil {
			cfg.Confirm = fn
		}
	}
}

// WithPrompter swaps the prompt used by the default confirmation.
func WithPrompter(p confirm.Prompter) Option {
	return func(cfg *Config) {
		if p != nil {
			cfg.Prompter = p
		}
	}
}

// WithRadioScope selects the radio lookup scope.
func WithRadioScope(scope RadioScope) Option {
	return func(cfg *Config) {
		cfg.RadioScope = scope
	}
}

// NewConfig builds a Config from options and fills in defaults.
func NewConfig(options ...Option) Config {
	var cfg Config
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg.WithDefaults()
}

// WithDefaults returns a copy where unsupplied or malformed fields fall back
// to their defaults. Confirm is left nil; guards fall back to the prompter.
func (c Config) WithDefaults() Config {
	if c.MaxCount <= 0 {
		c.MaxCount = DefaultMaxCount
	}
	if strings.TrimSpace(c.ExceededMessage) == "" {
		c.ExceededMessage = DefaultExceededMessage
	}
	if c.Prompter == nil {
		c.Prompter = confirm.Default()
	}
	if c.RadioScope != RadioScopeDocument {
		c.RadioScope = RadioScopeForm
	}
	return c
}

// Merge returns c with every supplied field of override applied on top.
// RadioScopeDocument in override wins; RadioScopeForm, being the zero
// value, cannot undo an earlier document scope.
func (c Config) Merge(override Config) Config {
	if override.MaxCount > 0 {
		c.MaxCount = override.MaxCount
	}
	if strings.TrimSpace(override.ExceededMessage) != "" {
		c.ExceededMessage = override.ExceededMessage
	}
	if override.Confirm != nil {
		c.Confirm = override.Confirm
	}
	if override.Prompter != nil {
		c.Prompter = override.Prompter
	}
	if override.RadioScope == RadioScopeDocument {
		c.RadioScope = RadioScopeDocument
	}
	return c
}
