package dom

import "strings"

// Form is a snapshot of a <form> element and its descendant input-like
// elements in document order.
type Form struct {
	ID     string
	Name   string
	Action string
	Method string

	doc      *Document
	elements []*Element
}

// TagName implements Node.
func (f *Form) TagName() string {
	return "form"
}

// Document returns the owning document.
func (f *Form) Document() *Document {
	if f == nil {
		return nil
	}
	return f.doc
}

// Elements returns the form's descendant elements in document order.
func (f *Form) Elements() []*Element {
	if f == nil {
		return nil
	}
	return append([]*Element(nil), f.elements...)
}

// Radios returns the radio inputs that descend from the form.
func (f *Form) Radios() []*Element {
	if f == nil {
		return nil
	}
	return filterKind(f.elements, KindRadio)
}

// Label returns the most descriptive identifier available for logs and
// reports: id, then name, then action.
func (f *Form) Label() string {
	if f == nil {
		return ""
	}
	for _, candidate := range []string{f.ID, f.Name, f.Action} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return "(anonymous)"
}

// Add appends an element to the form, registering it with the document too.
func (f *Form) Add(elements ...*Element) *Form {
	if f == nil {
		return f
	}
	for _, el := range elements {
		if el == nil {
			continue
		}
		el.form = f
		f.elements = append(f.elements, el)
		if f.doc != nil {
			f.doc.elements = append(f.doc.elements, el)
		}
	}
	return f
}

// Document is a snapshot of every form and input-like element on a page.
type Document struct {
	forms    []*Form
	elements []*Element
}

// NewDocument returns an empty document ready for programmatic assembly.
func NewDocument() *Document {
	return &Document{}
}

// AddForm appends an empty form with the given id.
func (d *Document) AddForm(id string) *Form {
	form := &Form{ID: id, doc: d}
	d.forms = append(d.forms, form)
	return form
}

// Add appends elements that live outside any form.
func (d *Document) Add(elements ...*Element) *Document {
	for _, el := range elements {
		if el == nil {
			continue
		}
		el.form = nil
		d.elements = append(d.elements, el)
	}
	return d
}

// Forms returns the forms in document order.
func (d *Document) Forms() []*Form {
	if d == nil {
		return nil
	}
	return append([]*Form(nil), d.forms...)
}

// Elements returns every input-like element in the document, inside a form
// or not.
func (d *Document) Elements() []*Element {
	if d == nil {
		return nil
	}
	return append([]*Element(nil), d.elements...)
}

// Radios returns every radio input in the document.
func (d *Document) Radios() []*Element {
	if d == nil {
		return nil
	}
	return filterKind(d.elements, KindRadio)
}

// FormByID finds a form by id, falling back to its name attribute.
func (d *Document) FormByID(id string) (*Form, bool) {
	if d == nil {
		return nil, false
	}
	key := strings.TrimSpace(id)
	if key == "" {
		return nil, false
	}
	for _, form := range d.forms {
		if form.ID == key {
			return form, true
		}
	}
	for _, form := range d.forms {
		if form.Name == key {
			return form, true
		}
	}
	return nil, false
}

func filterKind(elements []*Element, kind Kind) []*Element {
	var out []*Element
	for _, el := range elements {
		if el.Kind() == kind {
			out = append(out, el)
		}
	}
	return out
}
