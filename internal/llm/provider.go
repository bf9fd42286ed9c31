package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Provider sends one request to a model and returns its reply.
type Provider interface {
	// Generate runs req. When req.Schema is set the reply Content is JSON
	// already checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model used when a request names none.
	ModelID() string
}

// Request is a single-turn model call.
type Request struct {
	System   string
	Messages []Message

	// Model overrides ModelID for this call.
	Model string

	// Schema asks for structured JSON output. Nil means plain text.
	Schema *Schema

	// MaxTokens caps the reply. Zero leaves it to the provider where the
	// API allows.
	MaxTokens   int
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string

	// Images are sent ahead of Content so vision models read the drawing
	// before the instructions.
	Images []Image
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Image is an inline image, usually a PNG capture of the practice canvas.
type Image struct {
	MIMEType string
	Data     []byte
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64()
}

// Schema is a named JSON Schema for structured replies.
type Schema struct {
	Name        string // kebab-case, e.g. "handwriting-evaluation"
	Description string
	Definition  map[string]any
}

// Response is a model reply.
type Response struct {
	// Content is validated JSON for structured requests and the raw reply
	// text otherwise.
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually answered.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Text returns the reply with surrounding whitespace trimmed.
func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Content))
}

// Usage is the token count for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func usageOf(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

func modelFor(req Request, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	return fallback
}
