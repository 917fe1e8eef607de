package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-maxsubmit/pkg/report"
)

const page = `<form id="small"><input name="a"><input name="b"></form>
<form id="large"><input name="a"><input name="b"><input name="c"><input name="d"></form>`

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return path
}

func TestRun_AssumeYes(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{
		files:     []string{writePage(t)},
		maxCount:  3,
		assumeYes: true,
		format:    "json",
	}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var results []report.Result
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Verdict != "allowed" || results[1].Verdict != "confirmed" {
		t.Fatalf("unexpected verdicts %+v", results)
	}
}

func TestRun_SingleForm(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{
		files:     []string{writePage(t)},
		formID:    "small",
		assumeYes: true,
		format:    "json",
	}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var results []report.Result
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Form != "small" || results[0].Max != 1000 {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestRun_OpenAPIExceeded(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{
		openapi:    filepath.Join("..", "..", "pkg", "openapi", "testdata", "articles.yaml"),
		operation:  "createArticle",
		maxCount:   5,
		arrayItems: 1,
		format:     "text",
	}, &out)
	if !errors.Is(err, errCancelled) {
		t.Fatalf("expected errCancelled, got %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("exceeded")) {
		t.Fatalf("expected exceeded verdict in report:\n%s", out.String())
	}
}

func TestRun_Validation(t *testing.T) {
	if err := run(context.Background(), options{format: "text"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error when nothing is checked")
	}
	if err := run(context.Background(), options{format: "xml", files: []string{"x"}}, &bytes.Buffer{}); !errors.Is(err, report.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestRun_MalformedEnvUsesDefaults(t *testing.T) {
	t.Setenv("MAXSUBMIT_MAX_COUNT", "lots")
	t.Setenv("MAXSUBMIT_RADIO_SCOPE", "galaxy")

	var out bytes.Buffer
	err := run(context.Background(), options{
		files:  []string{writePage(t)},
		format: "json",
	}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var results []report.Result
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	for _, result := range results {
		if result.Max != 1000 || result.Verdict != "allowed" {
			t.Fatalf("expected default limit and allowed verdict, got %+v", result)
		}
	}
}
