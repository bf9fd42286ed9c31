// Package catalog holds the provider's model list, grouped by capability
// and ranked by price.
package catalog

// Capability is the kind of input a model is offered for.
type Capability string

const (
	Text   Capability = "text"
	Vision Capability = "vision"
	Audio  Capability = "audio"
)

// Capabilities lists every capability in display order.
var Capabilities = []Capability{Text, Vision, Audio}

// ParseCapability validates a capability name.
func ParseCapability(s string) (Capability, bool) {
	for _, c := range Capabilities {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Cost is USD per million tokens.
type Cost struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Combined is the ranking key.
func (c Cost) Combined() float64 { return c.Input + c.Output }

// ModelDescriptor describes one model offered to the user. Values are
// never mutated after a refresh builds them.
type ModelDescriptor struct {
	ID            string     `json:"id"`
	DisplayName   string     `json:"name"`
	Description   string     `json:"description"`
	Capability    Capability `json:"capability"`
	Cost          Cost       `json:"costPerMToken"`
	ContextLength int        `json:"contextLength,omitempty"`
}
