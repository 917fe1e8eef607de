package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-maxsubmit/pkg/maxsubmit"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ErrUnknownFormat is returned for unsupported formats.
var ErrUnknownFormat = errors.New("report: unknown format")

// ParseFormat normalises a format name. Empty means text.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// Result is one checked form.
type Result struct {
	Source  string          `json:"source"`
	Form    string          `json:"form"`
	Count   int             `json:"count"`
	Max     int             `json:"max"`
	Verdict string          `json:"verdict"`
	Tally   maxsubmit.Tally `json:"tally"`
	Message string          `json:"message,omitempty"`
}

// FromDecision builds a Result from a guard decision. The message is only
// kept when the limit was exceeded.
func FromDecision(source, form string, decision maxsubmit.Decision, message string) Result {
	r := Result{
		Source:  source,
		Form:    form,
		Count:   decision.Count,
		Max:     decision.Max,
		Verdict: decision.Verdict.String(),
		Tally:   decision.Tally,
	}
	if decision.Exceeded() {
		r.Message = message
	}
	return r
}

// Exceeded reports whether the count was above the maximum.
func (r Result) Exceeded() bool {
	return r.Count > r.Max
}

// MessageHTML is the message sanitised for inclusion in HTML.
func (r Result) MessageHTML() string {
	if strings.TrimSpace(r.Message) == "" {
		return ""
	}
	cleaned := htmlSanitizer().Sanitize(r.Message)
	return strings.ReplaceAll(strings.TrimSpace(cleaned), "\n", "<br>")
}

// Write encodes results to w.
func Write(w io.Writer, format Format, results []Result) error {
	switch format {
	case FormatText, "":
		return writeText(w, results)
	case FormatJSON:
		return writeJSON(w, results)
	case FormatHTML:
		return writeHTML(w, results)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func writeText(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tFORM\tCOUNT\tMAX\tVERDICT\tTEXT\tCHECKBOX\tSELECT\tMULTI\tRADIO")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.Source, r.Form, r.Count, r.Max, r.Verdict,
			r.Tally.Text, r.Tally.Checkboxes, r.Tally.Selects, r.Tally.MultiSelected, r.Tally.RadioGroups,
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("report: write text: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, results []Result) error {
	if results == nil {
		results = []Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("report: write json: %w", err)
	}
	return nil
}

func writeHTML(w io.Writer, results []Result) error {
	tpl, err := htmlTemplate()
	if err != nil {
		return err
	}
	exceeded := 0
	for _, r := range results {
		if r.Exceeded() {
			exceeded++
		}
	}
	ctx := pongo2.Context{
		"title":    "Form parameter report",
		"results":  results,
		"exceeded": exceeded,
	}
	if err := tpl.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("report: render html: %w", err)
	}
	return nil
}

var (
	templateOnce sync.Once
	templateErr  error
	htmlTpl      *pongo2.Template

	sanitizerOnce sync.Once
	sanitizer     *bluemonday.Policy
)

func htmlTemplate() (*pongo2.Template, error) {
	templateOnce.Do(func() {
		set := pongo2.NewSet("report", pongo2.NewFSLoader(TemplatesFS()))
		htmlTpl, templateErr = set.FromFile(htmlTemplateName)
		if templateErr != nil {
			templateErr = fmt.Errorf("report: load template %q: %w", htmlTemplateName, templateErr)
		}
	})
	return htmlTpl, templateErr
}

func htmlSanitizer() *bluemonday.Policy {
	sanitizerOnce.Do(func() {
		sanitizer = bluemonday.UGCPolicy()
	})
	return sanitizer
}
