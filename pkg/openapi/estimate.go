package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-maxsubmit/pkg/maxsubmit"
)

var (
	// ErrOperationNotFound is returned when no operation matches the id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoFormBody is returned when the operation has no form-encoded body.
	ErrNoFormBody = errors.New("openapi: operation has no form-encoded request body")
)

// formMediaTypes lists the body encodings subject to input variable limits,
// in order of preference.
var formMediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

const maxDepth = 16

// maxCount caps every per-parameter count, so huge maxItems values saturate
// instead of overflowing.
const maxCount = math.MaxInt32

// Parameter is one estimated request parameter family.
type Parameter struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Estimate is the static parameter estimate for an operation.
type Estimate struct {
	OperationID string          `json:"operationId"`
	Method      string          `json:"method"`
	Path        string          `json:"path"`
	MediaType   string          `json:"mediaType"`
	Tally       maxsubmit.Tally `json:"tally"`
	Parameters  []Parameter     `json:"parameters"`
}

// Total is the estimated parameter count.
func (e Estimate) Total() int {
	return e.Tally.Total()
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Estimator) {
		if client != nil {
			e.client = client
		}
	}
}

// WithTimeout caps remote fetch durations.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Estimator) {
		e.timeout = timeout
	}
}

// WithArrayItems sets how many items an array without maxItems is assumed to
// carry. Values below 1 are ignored.
func WithArrayItems(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.arrayItems = n
		}
	}
}

// Estimator loads OpenAPI documents and estimates form parameter counts.
type Estimator struct {
	client     *http.Client
	timeout    time.Duration
	arrayItems int
}

// NewEstimator constructs an Estimator.
func NewEstimator(options ...Option) *Estimator {
	e := &Estimator{arrayItems: 1, timeout: 30 * time.Second}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Estimate loads src and estimates the request parameters of operationID. The
// id may also be given as "method:path", e.g. "post:/articles".
func (e *Estimator) Estimate(ctx context.Context, src Source, operationID string) (Estimate, error) {
	data, err := readSource(ctx, e.client, e.timeout, src)
	if err != nil {
		return Estimate{}, err
	}
	return e.EstimateData(ctx, data, operationID)
}

// EstimateData is Estimate for an already loaded document.
func (e *Estimator) EstimateData(ctx context.Context, data []byte, operationID string) (Estimate, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return Estimate{}, fmt.Errorf("openapi: load document: %w", err)
	}

	method, path, op, ok := findOperation(doc, operationID)
	if !ok {
		return Estimate{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	mediaType, schema, ok := formSchema(op)
	if !ok {
		return Estimate{}, fmt.Errorf("%w: %q", ErrNoFormBody, operationID)
	}

	w := &schemaWalker{arrayItems: e.arrayItems, visiting: make(map[*openapi3.Schema]bool)}
	w.walk("", schema, 0)

	sort.SliceStable(w.params, func(i, j int) bool {
		return w.params[i].Name < w.params[j].Name
	})

	return Estimate{
		OperationID: op.OperationID,
		Method:      method,
		Path:        path,
		MediaType:   mediaType,
		Tally:       w.tally,
		Parameters:  w.params,
	}, nil
}

func findOperation(doc *openapi3.T, id string) (string, string, *openapi3.Operation, bool) {
	want := strings.TrimSpace(id)
	if doc.Paths == nil || want == "" {
		return "", "", nil, false
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			fallback := strings.ToLower(method) + ":" + path
			if op.OperationID == want || strings.EqualFold(fallback, want) {
				return strings.ToUpper(method), path, op, true
			}
		}
	}
	return "", "", nil, false
}

func formSchema(op *openapi3.Operation) (string, *openapi3.Schema, bool) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return "", nil, false
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range formMediaTypes {
		mt, ok := content[mediaType]
		if !ok || mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
			continue
		}
		return mediaType, mt.Schema.Value, true
	}
	return "", nil, false
}

type schemaWalker struct {
	arrayItems int
	visiting   map[*openapi3.Schema]bool
	tally      maxsubmit.Tally
	params     []Parameter
}

func (w *schemaWalker) walk(name string, schema *openapi3.Schema, depth int) {
	if schema == nil || depth > maxDepth || w.visiting[schema] {
		return
	}
	w.visiting[schema] = true
	defer delete(w.visiting, schema)

	for _, ref := range schema.AllOf {
		if ref != nil {
			w.walk(name, ref.Value, depth+1)
		}
	}
	if branch := w.widestBranch(name, schema, depth); branch != nil {
		w.merge(branch)
	}

	switch {
	case isType(schema, openapi3.TypeObject) || len(schema.Properties) > 0:
		names := make([]string, 0, len(schema.Properties))
		for prop := range schema.Properties {
			names = append(names, prop)
		}
		sort.Strings(names)
		for _, prop := range names {
			ref := schema.Properties[prop]
			if ref == nil {
				continue
			}
			w.walk(childName(name, prop), ref.Value, depth+1)
		}
	case isType(schema, openapi3.TypeArray):
		w.array(name, schema, depth)
	case name == "":
		// A bare scalar body has no parameter name to submit under.
	case isBinary(schema):
		// File uploads are not counted.
	case len(schema.Enum) > 0:
		w.tally.Selects++
		w.add(name, "select", 1)
	case isType(schema, openapi3.TypeBoolean):
		w.tally.Checkboxes++
		w.add(name, "checkbox", 1)
	case len(schema.AllOf) == 0 && len(schema.OneOf) == 0 && len(schema.AnyOf) == 0:
		w.tally.Text++
		w.add(name, "text", 1)
	}
}

func (w *schemaWalker) array(name string, schema *openapi3.Schema, depth int) {
	if name == "" {
		return
	}
	var items *openapi3.Schema
	if schema.Items != nil {
		items = schema.Items.Value
	}
	if items != nil && isBinary(items) {
		return
	}

	count := min(w.arrayItems, maxCount)
	if schema.MaxItems != nil {
		count = int(min(*schema.MaxItems, uint64(maxCount)))
	}

	if items != nil && len(items.Enum) > 0 {
		if schema.MaxItems == nil || count > len(items.Enum) {
			count = len(items.Enum)
		}
		w.tally.MultiSelected += count
		w.add(name+"[]", "select-multiple", count)
		return
	}

	// Object items are walked once and scaled by the item count.
	if items != nil && (isType(items, openapi3.TypeObject) || len(items.Properties) > 0) {
		item := &schemaWalker{arrayItems: w.arrayItems, visiting: w.visiting}
		item.walk(name+"[]", items, depth+1)
		w.tally = w.tally.Add(scaleTally(item.tally, count))
		for _, param := range item.params {
			param.Count = mulCapped(param.Count, count)
			w.params = append(w.params, param)
		}
		return
	}

	w.tally.Text += count
	w.add(name+"[]", "text", count)
}

// widestBranch walks every oneOf/anyOf branch on its own and returns the one
// contributing the most parameters.
func (w *schemaWalker) widestBranch(name string, schema *openapi3.Schema, depth int) *schemaWalker {
	var best *schemaWalker
	for _, ref := range append(append(openapi3.SchemaRefs(nil), schema.OneOf...), schema.AnyOf...) {
		if ref == nil {
			continue
		}
		branch := &schemaWalker{arrayItems: w.arrayItems, visiting: w.visiting}
		branch.walk(name, ref.Value, depth+1)
		if best == nil || branch.tally.Total() > best.tally.Total() {
			best = branch
		}
	}
	return best
}

func (w *schemaWalker) merge(other *schemaWalker) {
	w.tally = w.tally.Add(other.tally)
	w.params = append(w.params, other.params...)
}

func (w *schemaWalker) add(name, kind string, count int) {
	w.params = append(w.params, Parameter{Name: name, Kind: kind, Count: count})
}

func scaleTally(t maxsubmit.Tally, n int) maxsubmit.Tally {
	return maxsubmit.Tally{
		Text:          mulCapped(t.Text, n),
		Checkboxes:    mulCapped(t.Checkboxes, n),
		Selects:       mulCapped(t.Selects, n),
		MultiSelected: mulCapped(t.MultiSelected, n),
		RadioGroups:   mulCapped(t.RadioGroups, n),
	}
}

func mulCapped(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > maxCount/b {
		return maxCount
	}
	return a * b
}

func childName(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "[" + child + "]"
}

func isType(schema *openapi3.Schema, typ string) bool {
	return schema.Type != nil && schema.Type.Is(typ)
}

func isBinary(schema *openapi3.Schema) bool {
	return isType(schema, openapi3.TypeString) && (schema.Format == "binary" || schema.Format == "base64")
}
