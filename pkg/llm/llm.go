// Package llm abstracts the external text-generation capability behind
// a small provider interface so services receive an injected client
// rather than a package-level one.
package llm

import "context"

// Schema constrains the provider output to a strict JSON shape. The
// provider must treat responses as untrusted text; callers still
// parse-and-validate.
type Schema struct {
	Name       string
	Strict     bool
	Definition map[string]interface{}
}

// File is an optional document attached to a generation request.
type File struct {
	Name     string
	MIMEType string
	Base64   string
}

// Request is one structured generation call.
type Request struct {
	Model           string
	Instructions    string
	File            *File
	Schema          *Schema
	Temperature     float64
	MaxOutputTokens int
}

// Response carries the raw structured text returned by the provider.
type Response struct {
	Content []byte
}

// Provider issues a single generation call. Implementations are safe
// for concurrent use.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
