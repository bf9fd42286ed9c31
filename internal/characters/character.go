// Package characters is the read-only reference store for practice
// characters: definitions, pronunciation, examples and stroke hints per
// language. Lookups never mutate; a missing character is reported as absent.
package characters

// Difficulty grades a character for practice level selection.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// AllDifficulties returns all difficulty levels from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Info is the reference metadata for one practice character or word.
type Info struct {
	Character     string     `yaml:"character" json:"character"`
	Language      string     `yaml:"-" json:"language"`
	Category      string     `yaml:"-" json:"category"`
	Difficulty    Difficulty `yaml:"difficulty" json:"difficulty"`
	Definition    string     `yaml:"definition" json:"definition"`
	Pronunciation string     `yaml:"pronunciation" json:"pronunciation,omitempty"`
	Synonyms      []string   `yaml:"synonyms" json:"synonyms"`
	Antonyms      []string   `yaml:"antonyms" json:"antonyms"`
	Usage         string     `yaml:"usage" json:"usage"`
	Examples      []string   `yaml:"examples" json:"examples"`
	StrokeOrder   []string   `yaml:"stroke_order" json:"strokeOrder,omitempty"`
	CulturalNotes string     `yaml:"cultural_notes" json:"culturalNotes,omitempty"`
	Related       []string   `yaml:"related" json:"relatedCharacters,omitempty"`
}

// Category groups characters of one language, e.g. "basic-letters".
type Category struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Characters  []Info `yaml:"characters" json:"characters"`
}
