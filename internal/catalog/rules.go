package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// maxPerCapability caps each ranked list.
const maxPerCapability = 8

// VisionAllowList is the only set of models offered for handwriting
// scoring.
var VisionAllowList = []string{
	"qwen/qwen2.5-vl-32b-instruct:free",
	"mistral/mistral-small-3.2-24b:free",
}

// keywords select which categorized models are offered. Matching is
// case-insensitive on the model id.
var keywords = map[Capability][]string{
	Text:  {"gpt-3.5-turbo", "gpt-4", "claude", "gemini", "llama", "mistral"},
	Audio: {"whisper"},
}

// IsVisionAllowed reports whether id may be used for vision scoring.
func IsVisionAllowed(id string) bool {
	return slices.Contains(VisionAllowList, id)
}

// categorize assigns a capability from the model id alone. Substrings
// match case-sensitively.
func categorize(id string) Capability {
	switch {
	case strings.Contains(id, "vision") || strings.Contains(id, "claude-3"):
		return Vision
	case strings.Contains(id, "whisper") || strings.Contains(id, "audio"):
		return Audio
	default:
		return Text
	}
}

// selectModels keeps the offered models of one capability, ranks them by
// combined cost (stable, so equal prices keep provider order) and caps
// the list.
func selectModels(capability Capability, models []ModelDescriptor) []ModelDescriptor {
	var out []ModelDescriptor
	for _, m := range models {
		if offered(capability, m.ID) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b ModelDescriptor) int {
		return cmp.Compare(a.Cost.Combined(), b.Cost.Combined())
	})
	if len(out) > maxPerCapability {
		out = out[:maxPerCapability]
	}
	return out
}

func offered(capability Capability, id string) bool {
	if capability == Vision {
		return IsVisionAllowed(id)
	}
	lower := strings.ToLower(id)
	for _, kw := range keywords[capability] {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// partition categorizes and ranks a raw model list. The vision list is
// drawn from every fetched model, so an allow-listed id may also be offered
// under the capability its id categorizes to.
func partition(models []ModelDescriptor) map[Capability][]ModelDescriptor {
	grouped := make(map[Capability][]ModelDescriptor, len(Capabilities))
	all := make([]ModelDescriptor, 0, len(models))
	for _, m := range models {
		m.Capability = categorize(m.ID)
		grouped[m.Capability] = append(grouped[m.Capability], m)

		m.Capability = Vision
		all = append(all, m)
	}
	out := make(map[Capability][]ModelDescriptor, len(Capabilities))
	for _, c := range Capabilities {
		if c == Vision {
			out[c] = selectModels(c, all)
			continue
		}
		out[c] = selectModels(c, grouped[c])
	}
	return out
}
