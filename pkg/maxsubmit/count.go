package maxsubmit

import "github.com/goliatone/go-maxsubmit/pkg/dom"

// Tally breaks a parameter estimate down by the field kinds that produced it.
type Tally struct {
	// Text covers text, password and submit inputs plus textareas.
	Text int `json:"text"`
	// Checkboxes counts checked checkboxes only.
	Checkboxes int `json:"checkboxes"`
	// Selects counts single-select lists, which always submit a value.
	Selects int `json:"selects"`
	// MultiSelected counts selected options across multi-select lists.
	MultiSelected int `json:"multiSelected"`
	// RadioGroups counts distinct radio names.
	RadioGroups int `json:"radioGroups"`
}

// Total is the estimated number of request parameters.
func (t Tally) Total() int {
	return t.Text + t.Checkboxes + t.Selects + t.MultiSelected + t.RadioGroups
}

// Add sums two tallies.
func (t Tally) Add(other Tally) Tally {
	return Tally{
		Text:          t.Text + other.Text,
		Checkboxes:    t.Checkboxes + other.Checkboxes,
		Selects:       t.Selects + other.Selects,
		MultiSelected: t.MultiSelected + other.MultiSelected,
		RadioGroups:   t.RadioGroups + other.RadioGroups,
	}
}

// Count estimates the parameters form would submit. The result is an upper
// bound: disabled and unnamed fields are counted, and every submit button
// counts even though at most one is sent.
func Count(form *dom.Form, scope RadioScope) Tally {
	var tally Tally
	if form == nil {
		return tally
	}

	for _, el := range form.Elements() {
		switch el.Kind() {
		case dom.KindText, dom.KindSubmit, dom.KindPassword, dom.KindTextArea:
			tally.Text++
		case dom.KindCheckbox:
			if el.Checked {
				tally.Checkboxes++
			}
		case dom.KindSelect:
			tally.Selects++
		case dom.KindSelectMultiple:
			tally.MultiSelected += el.SelectedCount()
		}
	}

	radios := form.Radios()
	if scope == RadioScopeDocument && form.Document() != nil {
		radios = form.Document().Radios()
	}
	tally.RadioGroups = countRadioGroups(radios)
	return tally
}

// radioGroup keys a group by name. A missing name attribute and an empty one
// are distinct groups.
type radioGroup struct {
	named bool
	name  string
}

// Radios without a name attribute share one anonymous group.
func countRadioGroups(radios []*dom.Element) int {
	groups := make(map[radioGroup]struct{}, len(radios))
	for _, radio := range radios {
		groups[radioGroup{named: radio.HasName, name: radio.Name}] = struct{}{}
	}
	return len(groups)
}
