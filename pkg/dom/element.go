package dom

import "strings"

// Kind classifies an element by the number of request parameters it can
// contribute to a submission.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindSubmit
	KindPassword
	KindTextArea
	KindCheckbox
	KindRadio
	KindSelect
	KindSelectMultiple
)

var kindNames = map[Kind]string{
	KindOther:          "other",
	KindText:           "text",
	KindSubmit:         "submit",
	KindPassword:       "password",
	KindTextArea:       "textarea",
	KindCheckbox:       "checkbox",
	KindRadio:          "radio",
	KindSelect:         "select",
	KindSelectMultiple: "select-multiple",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Node is anything a guard can be attached to. Only forms accept bindings;
// other nodes exist so callers can pass arbitrary elements without checking
// their type first.
type Node interface {
	TagName() string
}

// Option is a single <option> of a select list.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Element is an input-like element (input, textarea, select).
type Element struct {
	Tag      string
	Type     string
	HasType  bool
	Name     string
	HasName  bool
	Checked  bool
	Multiple bool
	Disabled bool
	Options  []Option

	form *Form
}

// TagName implements Node.
func (e *Element) TagName() string {
	if e == nil {
		return ""
	}
	return e.Tag
}

// Form returns the form the element descends from, or nil.
func (e *Element) Form() *Form {
	if e == nil {
		return nil
	}
	return e.form
}

// Kind derives the element classification from its tag and type attribute.
// An input without a type attribute is a text input; an explicitly empty
// type is not.
func (e *Element) Kind() Kind {
	if e == nil {
		return KindOther
	}
	switch e.Tag {
	case "textarea":
		return KindTextArea
	case "select":
		if e.Multiple {
			return KindSelectMultiple
		}
		return KindSelect
	case "input":
		switch strings.ToLower(strings.TrimSpace(e.Type)) {
		case "":
			if !e.HasType {
				return KindText
			}
		case "text":
			return KindText
		case "submit":
			return KindSubmit
		case "password":
			return KindPassword
		case "checkbox":
			return KindCheckbox
		case "radio":
			return KindRadio
		}
	}
	return KindOther
}

// SelectedCount returns how many options are currently selected.
func (e *Element) SelectedCount() int {
	if e == nil {
		return 0
	}
	count := 0
	for _, opt := range e.Options {
		if opt.Selected {
			count++
		}
	}
	return count
}

// SelectedValues returns the values of the selected options in order.
func (e *Element) SelectedValues() []string {
	if e == nil {
		return nil
	}
	var out []string
	for _, opt := range e.Options {
		if opt.Selected {
			out = append(out, opt.Value)
		}
	}
	return out
}

// SetChecked updates the checked state of a checkbox or radio. Checking a
// radio clears the other radios sharing its name within the same form.
func (e *Element) SetChecked(checked bool) {
	if e == nil {
		return
	}
	e.Checked = checked
	if !checked || e.Kind() != KindRadio || e.form == nil {
		return
	}
	for _, other := range e.form.elements {
		if other != e && other.Kind() == KindRadio && other.Name == e.Name {
			other.Checked = false
		}
	}
}

// Select marks the options whose value is listed as selected and clears the
// rest. Single-select lists keep only the last matching value.
func (e *Element) Select(values ...string) {
	if e == nil {
		return
	}
	wanted := make(map[string]struct{}, len(values))
	for _, v := range values {
		wanted[v] = struct{}{}
	}
	last := -1
	for i := range e.Options {
		_, ok := wanted[e.Options[i].Value]
		e.Options[i].Selected = ok
		if ok {
			last = i
		}
	}
	if e.Multiple || last < 0 {
		return
	}
	for i := range e.Options {
		e.Options[i].Selected = i == last
	}
}

// Input builds an <input> element with the given type and name. An empty typ
// leaves the type attribute out.
func Input(typ, name string) *Element {
	return &Element{Tag: "input", Type: typ, HasType: typ != "", Name: name, HasName: name != ""}
}

// TextInput builds an <input type="text">.
func TextInput(name string) *Element {
	return Input("text", name)
}

// Checkbox builds an <input type="checkbox">.
func Checkbox(name string, checked bool) *Element {
	el := Input("checkbox", name)
	el.Checked = checked
	return el
}

// Radio builds an <input type="radio">.
func Radio(name string, checked bool) *Element {
	el := Input("radio", name)
	el.Checked = checked
	return el
}

// TextArea builds a <textarea>.
func TextArea(name string) *Element {
	return &Element{Tag: "textarea", Name: name, HasName: name != ""}
}

// Select builds a <select>, multiple when requested.
func Select(name string, multiple bool, options ...Option) *Element {
	return &Element{
		Tag:      "select",
		Name:     name,
		HasName:  name != "",
		Multiple: multiple,
		Options:  append([]Option(nil), options...),
	}
}

// Opt builds a select option whose label matches its value.
func Opt(value string, selected bool) Option {
	return Option{Value: value, Label: value, Selected: selected}
}
