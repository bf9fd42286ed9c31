package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Normalized stop reasons.
const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
)

// finish turns a provider's reply text into the Response returned to the
// caller. The remaining fields of r are filled in by the provider.
// Structured requests must come back as complete JSON matching the schema.
func finish(req Request, text string, r Response) (*Response, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ErrInvalidResponse{Err: errors.New("empty reply")}
	}
	if req.Schema == nil {
		r.Content = json.RawMessage(text)
		return &r, nil
	}

	r.Content = json.RawMessage(stripCodeFence(text))
	if r.StopReason == stopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Limit: req.MaxTokens, Content: r.Content}
	}
	if err := checkSchema(req.Schema, r.Content); err != nil {
		return nil, err
	}
	return &r, nil
}

// stripCodeFence unwraps a ```json fence some models put around
// structured output.
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimPrefix(t, "json")
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// Decode checks a structured reply against schema and unmarshals it into T.
func Decode[T any](schema *Schema, resp *Response) (T, error) {
	var out T
	if err := checkSchema(schema, resp.Content); err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return out, &ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("decode %s: %w", schema.Name, err)}
	}
	return out, nil
}

// checkSchema reports an *ErrInvalidResponse when raw is not JSON or does
// not satisfy schema. A nil schema accepts anything.
func checkSchema(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}

	compiled, err := schemas.get(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("%s: %w", schema.Name, err)}
	}
	return nil
}

// schemas holds compiled schemas by name. Names are assumed unique per
// definition.
var schemas = &schemaSet{byName: map[string]*jsonschema.Schema{}}

type schemaSet struct {
	mu     sync.Mutex
	byName map[string]*jsonschema.Schema
}

func (s *schemaSet) get(schema *Schema) (*jsonschema.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.byName[schema.Name]; ok {
		return c, nil
	}

	// Round-trip through JSON so the compiler sees plain decoded values
	// rather than typed Go slices.
	raw, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", schema.Name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", schema.Name, err)
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", schema.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}

	s.byName[schema.Name] = compiled
	return compiled, nil
}
