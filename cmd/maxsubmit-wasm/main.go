//go:build js && wasm

// Command maxsubmit-wasm installs window.maxSubmit(target, options) in the
// browser. Each form matched by target gets a submit listener that counts the
// parameters the form will send and asks window.confirm before submitting an
// oversized form. Options accept both the jQuery plugin's snake_case names
// and camelCase: max_count, max_exceeded_message, confirm_display,
// radio_scope.
package main

import (
	"context"
	"log/slog"
	"strings"
	"syscall/js"

	"github.com/goliatone/go-maxsubmit/pkg/dom"
	"github.com/goliatone/go-maxsubmit/pkg/maxsubmit"
)

type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("debug", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

var (
	logger = slog.New(slog.NewTextHandler(consoleWriter{}, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Listeners must outlive the call that registered them.
	listeners []js.Func
)

func main() {
	js.Global().Set("maxSubmit", js.FuncOf(attach))
	select {}
}

// attach implements maxSubmit(target, options). Non-form targets are ignored.
func attach(_ js.Value, args []js.Value) any {
	if len(args) == 0 {
		return 0
	}
	var options js.Value
	if len(args) > 1 {
		options = args[1]
	}
	cfg := configFrom(options)

	attached := 0
	for _, el := range resolveTargets(args[0]) {
		if !strings.EqualFold(el.Get("tagName").String(), "form") {
			continue
		}
		bind(el, cfg)
		attached++
	}
	return attached
}

func bind(form js.Value, cfg maxsubmit.Config) {
	guard := maxsubmit.NewGuard(cfg, logger)
	listener := js.FuncOf(func(_ js.Value, args []js.Value) any {
		snapshot := snapshotForm(form)
		decision := guard.Check(context.Background(), snapshot)
		if !decision.Proceed() && len(args) > 0 {
			args[0].Call("preventDefault")
		}
		return nil
	})
	listeners = append(listeners, listener)
	form.Call("addEventListener", "submit", listener)
}

func resolveTargets(target js.Value) []js.Value {
	switch {
	case target.Type() == js.TypeString:
		return collection(js.Global().Get("document").Call("querySelectorAll", target.String()))
	case target.Type() != js.TypeObject:
		return nil
	case !target.Get("tagName").IsUndefined():
		return []js.Value{target}
	case !target.Get("length").IsUndefined():
		return collection(target)
	}
	return nil
}

func collection(list js.Value) []js.Value {
	n := list.Get("length").Int()
	out := make([]js.Value, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, list.Index(i))
	}
	return out
}

func configFrom(options js.Value) maxsubmit.Config {
	var cfg maxsubmit.Config
	if options.Type() != js.TypeObject {
		return cfg
	}

	switch v := option(options, "max_count", "maxCount"); v.Type() {
	case js.TypeNumber:
		cfg.MaxCount = v.Int()
	case js.TypeString:
		if n, ok := maxsubmit.ParseMaxCount(v.String()); ok {
			cfg.MaxCount = n
		}
	}
	if v := option(options, "max_exceeded_message", "exceededMessage"); v.Type() == js.TypeString {
		cfg.ExceededMessage = v.String()
	}
	if v := option(options, "confirm_display", "confirmDisplay"); v.Type() == js.TypeFunction {
		cfg.Confirm = func(formCount int) bool {
			return v.Invoke(formCount).Truthy()
		}
	}
	if v := option(options, "radio_scope", "radioScope"); v.Type() == js.TypeString {
		if scope, err := maxsubmit.ParseRadioScope(v.String()); err == nil {
			cfg.RadioScope = scope
		}
	}
	return cfg
}

func option(options js.Value, names ...string) js.Value {
	for _, name := range names {
		if v := options.Get(name); !v.IsUndefined() && !v.IsNull() {
			return v
		}
	}
	return js.Undefined()
}

// snapshotForm captures the live state of form, plus the document's radios
// outside it so document-scoped counting still works.
func snapshotForm(form js.Value) *dom.Form {
	doc := dom.NewDocument()
	snapshot := doc.AddForm(attr(form, "id"))
	snapshot.Name = attr(form, "name")
	snapshot.Action = attr(form, "action")
	snapshot.Method = strings.ToLower(attr(form, "method"))

	for _, el := range collection(form.Call("querySelectorAll", "input, textarea, select")) {
		snapshot.Add(elementFrom(el))
	}

	radios := js.Global().Get("document").Call("querySelectorAll", "input[type=radio]")
	for _, el := range collection(radios) {
		if !form.Call("contains", el).Bool() {
			doc.Add(elementFrom(el))
		}
	}
	return snapshot
}

func elementFrom(el js.Value) *dom.Element {
	name := el.Call("getAttribute", "name")
	out := &dom.Element{
		Tag:      strings.ToLower(el.Get("tagName").String()),
		Type:     strings.ToLower(attr(el, "type")),
		HasType:  !el.Call("getAttribute", "type").IsNull(),
		HasName:  !name.IsNull(),
		Checked:  el.Get("checked").Truthy(),
		Multiple: el.Get("multiple").Truthy(),
		Disabled: el.Get("disabled").Truthy(),
	}
	if out.HasName {
		out.Name = name.String()
	}
	if out.Tag == "select" {
		for _, opt := range collection(el.Get("options")) {
			out.Options = append(out.Options, dom.Option{
				Value:    opt.Get("value").String(),
				Label:    opt.Get("label").String(),
				Selected: opt.Get("selected").Truthy(),
			})
		}
	}
	return out
}

func attr(el js.Value, name string) string {
	v := el.Call("getAttribute", name)
	if v.IsNull() || v.IsUndefined() {
		return ""
	}
	return strings.TrimSpace(v.String())
}
