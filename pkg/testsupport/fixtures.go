package testsupport

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/goliatone/go-maxsubmit/pkg/dom"
)

// LoadPage parses an HTML fixture. Failures abort the test.
func LoadPage(t testing.TB, path string) *dom.Document {
	t.Helper()

	doc, err := dom.ParseFile(path)
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	return doc
}

// MustForm returns the form with the given id or fails the test.
func MustForm(t testing.TB, doc *dom.Document, id string) *dom.Form {
	t.Helper()

	form, ok := doc.FormByID(id)
	if !ok {
		t.Fatalf("form %q not found", id)
	}
	return form
}

// TextForm builds a form holding n text inputs named field0..fieldN-1.
func TextForm(id string, n int) *dom.Form {
	form := dom.NewDocument().AddForm(id)
	for i := 0; i < n; i++ {
		form.Add(dom.TextInput("field" + strconv.Itoa(i)))
	}
	return form
}

// RecordingPrompter answers every prompt with Answer and remembers the
// messages it was shown.
type RecordingPrompter struct {
	Answer bool
	Err    error

	mu       sync.Mutex
	messages []string
}

// Confirm implements confirm.Prompter.
func (p *RecordingPrompter) Confirm(_ context.Context, message string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
	if p.Err != nil {
		return false, p.Err
	}
	return p.Answer, nil
}

// Messages returns the prompts shown so far.
func (p *RecordingPrompter) Messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.messages...)
}
