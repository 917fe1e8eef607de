package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-maxsubmit/pkg/maxsubmit"
)

func sampleResults() []Result {
	return []Result{
		FromDecision("page.html", "login", maxsubmit.Decision{
			Verdict: maxsubmit.Allowed,
			Tally:   maxsubmit.Tally{Text: 3, RadioGroups: 1},
			Count:   4,
			Max:     10,
		}, "ignored when within limit"),
		FromDecision("page.html", "profile", maxsubmit.Decision{
			Verdict: maxsubmit.Cancelled,
			Tally:   maxsubmit.Tally{Text: 9, Checkboxes: 3},
			Count:   12,
			Max:     10,
		}, "Too many <b>fields</b>\nreally<script>alert(1)</script>"),
	}
}

func TestParseFormat(t *testing.T) {
	for raw, expect := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, " html ": FormatHTML} {
		got, err := ParseFormat(raw)
		if err != nil || got != expect {
			t.Fatalf("%q: expected %s, got %s (err=%v)", raw, expect, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestFromDecision_KeepsMessageOnlyWhenExceeded(t *testing.T) {
	results := sampleResults()
	if results[0].Message != "" {
		t.Fatalf("message should be dropped within the limit")
	}
	if results[1].Message == "" {
		t.Fatalf("message should be kept when exceeded")
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, sampleResults()); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "SOURCE") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if fields := strings.Fields(lines[2]); fields[1] != "profile" || fields[4] != "cancelled" {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleResults()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decoded []Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(sampleResults(), decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := Write(&buf, FormatJSON, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatHTML, sampleResults()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"<td>profile</td>", "1 over the limit", "Too many <b>fields</b><br>really"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script tags must be sanitised:\n%s", out)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Format("xml"), nil); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
