package dom

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFile_Checkout(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "checkout.html"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	forms := doc.Forms()
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}

	checkout, ok := doc.FormByID("checkout")
	if !ok {
		t.Fatalf("checkout form not found")
	}
	if checkout.Method != "post" {
		t.Fatalf("expected lower-cased method, got %q", checkout.Method)
	}
	if checkout.Document() != doc {
		t.Fatalf("form should reference its document")
	}

	var kinds []string
	for _, el := range checkout.Elements() {
		kinds = append(kinds, el.Kind().String())
	}
	want := []string{
		"text", "text", "password", "other", "other", "textarea",
		"checkbox", "checkbox", "select", "select-multiple",
		"radio", "radio", "radio", "submit",
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	if got := len(doc.Radios()); got != 6 {
		t.Fatalf("expected 6 radios in the document, got %d", got)
	}
	if got := len(checkout.Radios()); got != 3 {
		t.Fatalf("expected 3 radios in checkout, got %d", got)
	}
}

func TestParse_SelectOptions(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "checkout.html"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	checkout, _ := doc.FormByID("checkout")

	var multi *Element
	for _, el := range checkout.Elements() {
		if el.Kind() == KindSelectMultiple {
			multi = el
		}
	}
	if multi == nil {
		t.Fatalf("multi-select not found")
	}

	want := []Option{
		{Value: "paper", Label: "Paper", Selected: true},
		{Value: "ribbon", Label: "Ribbon"},
		{Value: "Card message", Label: "Card message", Selected: true},
	}
	if diff := cmp.Diff(want, multi.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if multi.Name != "extras[]" {
		t.Fatalf("unexpected name %q", multi.Name)
	}
}

func TestParse_ElementsOutsideForms(t *testing.T) {
	doc, err := ParseString(`<input type="radio" name="a"><form id="f"><input name="b"></form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	all := doc.Elements()
	if len(all) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(all))
	}
	if all[0].Form() != nil {
		t.Fatalf("orphan radio should not belong to a form")
	}
	if all[1].Form() == nil || all[1].Form().ID != "f" {
		t.Fatalf("text input should belong to form f")
	}
}

func TestParse_TemplateContentIgnored(t *testing.T) {
	doc, err := ParseString(`<form id="f"><template><input name="x"></template><input name="y"></form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form, _ := doc.FormByID("f")
	if got := len(form.Elements()); got != 1 {
		t.Fatalf("expected template content to be skipped, got %d elements", got)
	}
}

func TestParse_NilReader(t *testing.T) {
	if _, err := Parse(nil); err != ErrNilReader {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join("testdata", "missing.html"))
	if err == nil || !strings.Contains(err.Error(), "missing.html") {
		t.Fatalf("expected error naming the file, got %v", err)
	}
}
