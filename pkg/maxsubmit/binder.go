package maxsubmit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/goliatone/go-maxsubmit/pkg/dom"
)

// Outcome is the combined result of dispatching one submit through every
// guard bound to a form.
type Outcome struct {
	Form      *dom.Form
	Decisions []Decision
	Prevented bool
}

// Submitted reports whether the form would be sent.
func (o Outcome) Submitted() bool {
	return !o.Prevented
}

// Binder keeps an explicit, ordered list of guards per form.
type Binder struct {
	mu       sync.RWMutex
	bindings map[*dom.Form][]*Guard
	logger   *slog.Logger
}

// NewBinder returns an empty binder. A nil logger discards output.
func NewBinder(logger *slog.Logger) *Binder {
	if logger == nil {
		logger = discardLogger()
	}
	return &Binder{
		bindings: make(map[*dom.Form][]*Guard),
		logger:   logger,
	}
}

// Attach binds a new guard to target. Attaching to anything but a form is a
// no-op and returns false. Repeated attaches stack; nothing is deduplicated.
func (b *Binder) Attach(target dom.Node, cfg Config) (*Guard, bool) {
	form, ok := target.(*dom.Form)
	if !ok || form == nil {
		return nil, false
	}

	guard := NewGuard(cfg, b.logger)

	b.mu.Lock()
	b.bindings[form] = append(b.bindings[form], guard)
	total := len(b.bindings[form])
	b.mu.Unlock()

	b.logger.Debug("guard attached",
		slog.String("form", form.Label()),
		slog.Int("max", guard.cfg.MaxCount),
		slog.Int("guards", total),
	)
	return guard, true
}

// AttachAll binds one guard per form in targets, skipping non-forms, and
// returns the guards created.
func (b *Binder) AttachAll(targets []dom.Node, cfg Config) []*Guard {
	var guards []*Guard
	for _, target := range targets {
		if guard, ok := b.Attach(target, cfg); ok {
			guards = append(guards, guard)
		}
	}
	return guards
}

// Guards returns the guards bound to form in registration order.
func (b *Binder) Guards(form *dom.Form) []*Guard {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*Guard(nil), b.bindings[form]...)
}

// Detach removes every guard bound to form and reports how many were removed.
func (b *Binder) Detach(form *dom.Form) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	removed := len(b.bindings[form])
	delete(b.bindings, form)
	return removed
}

// Submit dispatches a submit event for form through each bound guard in
// order. Every guard runs even after an earlier one prevented the default.
func (b *Binder) Submit(ctx context.Context, form *dom.Form) Outcome {
	event := NewSubmitEvent(form)
	guards := b.Guards(form)

	outcome := Outcome{Form: form}
	for _, guard := range guards {
		outcome.Decisions = append(outcome.Decisions, guard.Handle(ctx, event))
	}
	outcome.Prevented = event.DefaultPrevented()
	return outcome
}
