package openapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-maxsubmit/pkg/maxsubmit"
)

func fixture() Source {
	return SourceFromFile(filepath.Join("testdata", "articles.yaml"))
}

func TestEstimate_CreateArticle(t *testing.T) {
	est, err := NewEstimator().Estimate(context.Background(), fixture(), "createArticle")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	wantTally := maxsubmit.Tally{Text: 5, Checkboxes: 1, Selects: 1, MultiSelected: 2}
	if diff := cmp.Diff(wantTally, est.Tally); diff != "" {
		t.Fatalf("tally mismatch (-want +got):\n%s", diff)
	}
	if est.Total() != 9 {
		t.Fatalf("expected 9 parameters, got %d", est.Total())
	}
	if est.Method != "POST" || est.Path != "/articles" || est.MediaType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected operation metadata %+v", est)
	}

	wantParams := []Parameter{
		{Name: "address[city]", Kind: "text", Count: 1},
		{Name: "address[street]", Kind: "text", Count: 1},
		{Name: "authors[]", Kind: "text", Count: 1},
		{Name: "body", Kind: "text", Count: 1},
		{Name: "featured", Kind: "checkbox", Count: 1},
		{Name: "status", Kind: "select", Count: 1},
		{Name: "tags[]", Kind: "select-multiple", Count: 2},
		{Name: "title", Kind: "text", Count: 1},
	}
	if diff := cmp.Diff(wantParams, est.Parameters); diff != "" {
		t.Fatalf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestEstimate_ArrayItemsOption(t *testing.T) {
	est, err := NewEstimator(WithArrayItems(10)).Estimate(context.Background(), fixture(), "createArticle")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	// authors[] has no maxItems and now assumes 10 entries.
	if est.Tally.Text != 14 {
		t.Fatalf("expected 14 text parameters, got %d", est.Tally.Text)
	}
}

func TestEstimate_MultipartWidestBranch(t *testing.T) {
	est, err := NewEstimator().Estimate(context.Background(), fixture(), "post:/media")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.MediaType != "multipart/form-data" {
		t.Fatalf("unexpected media type %q", est.MediaType)
	}
	if diff := cmp.Diff(maxsubmit.Tally{Text: 3}, est.Tally); diff != "" {
		t.Fatalf("tally mismatch (-want +got):\n%s", diff)
	}
}

const boundedArrays = `openapi: 3.0.3
info:
  title: bulk
  version: "1"
paths:
  /bulk:
    post:
      operationId: bulkUpdate
      requestBody:
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              properties:
                ids:
                  type: array
                  maxItems: 9223372036854775808
                  items:
                    type: string
                lines:
                  type: array
                  maxItems: 3
                  items:
                    type: object
                    properties:
                      sku:
                        type: string
                      gift:
                        type: boolean
                rows:
                  type: array
                  maxItems: 9223372036854775807
                  items:
                    type: object
                    properties:
                      a:
                        type: string
                      b:
                        type: string
      responses:
        "204":
          description: updated
`

func TestEstimate_ArrayBounds(t *testing.T) {
	est, err := NewEstimator().EstimateData(context.Background(), []byte(boundedArrays), "bulkUpdate")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	wantTally := maxsubmit.Tally{Text: 3*maxCount + 3, Checkboxes: 3}
	if diff := cmp.Diff(wantTally, est.Tally); diff != "" {
		t.Fatalf("tally mismatch (-want +got):\n%s", diff)
	}
	if est.Total() <= 0 {
		t.Fatalf("expected a positive total, got %d", est.Total())
	}

	wantParams := []Parameter{
		{Name: "ids[]", Kind: "text", Count: maxCount},
		{Name: "lines[][gift]", Kind: "checkbox", Count: 3},
		{Name: "lines[][sku]", Kind: "text", Count: 3},
		{Name: "rows[][a]", Kind: "text", Count: maxCount},
		{Name: "rows[][b]", Kind: "text", Count: maxCount},
	}
	if diff := cmp.Diff(wantParams, est.Parameters); diff != "" {
		t.Fatalf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestMulCapped(t *testing.T) {
	cases := []struct {
		a, b   int
		expect int
	}{
		{a: 2, b: 3, expect: 6},
		{a: 0, b: 5, expect: 0},
		{a: -1, b: 5, expect: 0},
		{a: maxCount, b: 2, expect: maxCount},
		{a: maxCount, b: maxCount, expect: maxCount},
	}
	for _, tc := range cases {
		if got := mulCapped(tc.a, tc.b); got != tc.expect {
			t.Fatalf("mulCapped(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.expect)
		}
	}
}

func TestEstimate_Errors(t *testing.T) {
	ctx := context.Background()
	estimator := NewEstimator()

	if _, err := estimator.Estimate(ctx, fixture(), "deleteEverything"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := estimator.Estimate(ctx, fixture(), "updateArticle"); !errors.Is(err, ErrNoFormBody) {
		t.Fatalf("expected ErrNoFormBody, got %v", err)
	}
	if _, err := estimator.Estimate(ctx, SourceFromFile(filepath.Join("testdata", "missing.yaml")), "x"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestEstimate_URLSource(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "articles.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer server.Close()

	src, err := ParseSource(server.URL + "/openapi.yaml")
	if err != nil {
		t.Fatalf("parse source: %v", err)
	}
	if src.Kind() != SourceKindURL {
		t.Fatalf("expected URL source, got %s", src.Kind())
	}

	est, err := NewEstimator(WithHTTPClient(server.Client())).Estimate(context.Background(), src, "createArticle")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.Total() != 9 {
		t.Fatalf("expected 9, got %d", est.Total())
	}

	missing, _ := SourceFromURL(server.URL + "/nope.yaml")
	if _, err := NewEstimator(WithHTTPClient(server.Client())).Estimate(context.Background(), missing, "createArticle"); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestParseSource(t *testing.T) {
	if _, err := ParseSource("  "); err == nil {
		t.Fatalf("expected error for empty source")
	}
	src, err := ParseSource("./specs/../specs/api.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if src.Kind() != SourceKindFile || src.Location() != "specs/api.yaml" {
		t.Fatalf("unexpected source %s %s", src.Kind(), src.Location())
	}
}
