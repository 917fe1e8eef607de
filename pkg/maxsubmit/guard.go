package maxsubmit

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/goliatone/go-maxsubmit/pkg/confirm"
	"github.com/goliatone/go-maxsubmit/pkg/dom"
)

// Verdict is the outcome of a single guard check.
type Verdict int

const (
	// Allowed means the count was within the maximum; nobody was asked.
	Allowed Verdict = iota
	// Confirmed means the maximum was exceeded and the user chose to proceed.
	Confirmed
	// Cancelled means the maximum was exceeded and the user declined.
	Cancelled
)

func (v Verdict) String() string {
	switch v {
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "allowed"
	}
}

// Decision records what a guard concluded for one submit attempt.
type Decision struct {
	Verdict Verdict `json:"verdict"`
	Tally   Tally   `json:"tally"`
	Count   int     `json:"count"`
	Max     int     `json:"max"`
}

// Proceed reports whether the submission may go ahead.
func (d Decision) Proceed() bool {
	return d.Verdict != Cancelled
}

// Exceeded reports whether the count was above the maximum.
func (d Decision) Exceeded() bool {
	return d.Count > d.Max
}

// SubmitEvent is the host's submit notification for a form. Guards cancel the
// submission by preventing its default action.
type SubmitEvent struct {
	Form *dom.Form

	prevented bool
}

// NewSubmitEvent builds an event for form.
func NewSubmitEvent(form *dom.Form) *SubmitEvent {
	return &SubmitEvent{Form: form}
}

// PreventDefault cancels the submission.
func (e *SubmitEvent) PreventDefault() {
	if e != nil {
		e.prevented = true
	}
}

// DefaultPrevented reports whether any handler cancelled the submission.
func (e *SubmitEvent) DefaultPrevented() bool {
	return e != nil && e.prevented
}

// Guard checks a form's parameter count on submit. Its configuration is fixed
// at construction.
type Guard struct {
	cfg    Config
	logger *slog.Logger
}

// NewGuard builds a guard, filling unsupplied configuration with defaults. A
// nil logger discards output.
func NewGuard(cfg Config, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = discardLogger()
	}
	return &Guard{cfg: cfg.WithDefaults(), logger: logger}
}

// Config returns the guard's effective configuration.
func (g *Guard) Config() Config {
	return g.cfg
}

// Count estimates the parameters form would submit without prompting.
func (g *Guard) Count(form *dom.Form) Tally {
	return Count(form, g.cfg.RadioScope)
}

// Message renders the exceeded message for formCount.
func (g *Guard) Message(formCount int) string {
	return RenderMessage(g.cfg.ExceededMessage, g.cfg.MaxCount, formCount)
}

// Check counts form and, when the maximum is exceeded, asks for confirmation.
// A count equal to the maximum never prompts.
func (g *Guard) Check(ctx context.Context, form *dom.Form) Decision {
	tally := g.Count(form)
	decision := Decision{
		Verdict: Allowed,
		Tally:   tally,
		Count:   tally.Total(),
		Max:     g.cfg.MaxCount,
	}

	logger := g.logger.With(
		slog.String("form", form.Label()),
		slog.Int("count", decision.Count),
		slog.Int("max", decision.Max),
	)

	if !decision.Exceeded() {
		logger.DebugContext(ctx, "form within parameter limit")
		return decision
	}

	if g.confirm(ctx, decision.Count) {
		decision.Verdict = Confirmed
		logger.InfoContext(ctx, "user confirmed oversized submit")
	} else {
		decision.Verdict = Cancelled
		logger.InfoContext(ctx, "user cancelled oversized submit")
	}
	return decision
}

// Handle checks the event's form and prevents the default action when the
// user declines.
func (g *Guard) Handle(ctx context.Context, event *SubmitEvent) Decision {
	decision := g.Check(ctx, event.Form)
	if !decision.Proceed() {
		event.PreventDefault()
	}
	return decision
}

func (g *Guard) confirm(ctx context.Context, formCount int) bool {
	if g.cfg.Confirm != nil {
		return g.cfg.Confirm(formCount)
	}
	ok, err := g.cfg.Prompter.Confirm(ctx, g.Message(formCount))
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, confirm.ErrAborted) {
			level = slog.LevelInfo
		}
		g.logger.Log(ctx, level, "confirmation prompt failed, cancelling submit", slog.Any("error", err))
		return false
	}
	return ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
