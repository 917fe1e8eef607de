// Package openapi estimates form parameter counts statically from an OpenAPI 3
// description, so oversized forms can be caught before any HTML exists. Only
// form-encoded request bodies are considered; JSON bodies are not subject to
// PHP's input variable limits.
package openapi
