package characters

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/characters.yaml
var seedYAML []byte

// reference holds the parsed data with lookup indices.
type reference struct {
	languages  []string
	categories map[string][]Category
	byKey      map[string]*Info
}

// ref is the package-level reference, built once by init().
var ref *reference

func init() {
	r, err := parse(seedYAML)
	if err != nil {
		panic(fmt.Sprintf("characters: invalid reference data: %v", err))
	}
	ref = r
}

// parse decodes the YAML document, fills the derived fields and validates.
func parse(data []byte) (*reference, error) {
	var raw map[string][]Category
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	r := &reference{
		categories: make(map[string][]Category, len(raw)),
		byKey:      make(map[string]*Info),
	}

	for lang, cats := range raw {
		r.languages = append(r.languages, lang)
		for ci := range cats {
			for i := range cats[ci].Characters {
				info := &cats[ci].Characters[i]
				info.Language = lang
				info.Category = cats[ci].ID
			}
		}
		r.categories[lang] = cats
	}
	sort.Strings(r.languages)

	if err := validate(r); err != nil {
		return nil, err
	}

	for _, lang := range r.languages {
		cats := r.categories[lang]
		for ci := range cats {
			for i := range cats[ci].Characters {
				info := &cats[ci].Characters[i]
				r.byKey[key(lang, info.Character)] = info
			}
		}
	}
	return r, nil
}

func key(language, character string) string {
	return language + "\x00" + character
}

// Languages returns the languages that have reference data, sorted.
func Languages() []string {
	return slices.Clone(ref.languages)
}

// Lookup returns the metadata for a character in a language.
func Lookup(language, character string) (Info, bool) {
	info, ok := ref.byKey[key(language, character)]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

// ByLanguage returns the categories of a language in data order.
// Unknown languages return nil.
func ByLanguage(language string) []Category {
	return slices.Clone(ref.categories[language])
}

// ByCategory returns the characters of one category.
func ByCategory(language, categoryID string) []Info {
	for _, c := range ref.categories[language] {
		if c.ID == categoryID {
			return slices.Clone(c.Characters)
		}
	}
	return nil
}

// ByDifficulty returns every character of a language at the given level.
func ByDifficulty(language string, d Difficulty) []Info {
	return collect(language, func(info Info) bool { return info.Difficulty == d })
}

// All returns every character of a language in data order.
func All(language string) []Info {
	return collect(language, func(Info) bool { return true })
}

// Search matches the query as a substring of the character itself, or
// case-insensitively against the definition, usage and examples.
func Search(language, query string) []Info {
	lower := strings.ToLower(query)
	return collect(language, func(info Info) bool {
		if strings.Contains(info.Character, query) ||
			strings.Contains(strings.ToLower(info.Definition), lower) ||
			strings.Contains(strings.ToLower(info.Usage), lower) {
			return true
		}
		for _, ex := range info.Examples {
			if strings.Contains(strings.ToLower(ex), lower) {
				return true
			}
		}
		return false
	})
}

// Random picks a character of the language, optionally restricted to a
// difficulty (empty means any). Returns false when nothing matches.
func Random(language string, d Difficulty, rng *rand.Rand) (Info, bool) {
	var pool []Info
	if d == "" {
		pool = All(language)
	} else {
		pool = ByDifficulty(language, d)
	}
	if len(pool) == 0 {
		return Info{}, false
	}
	var idx int
	if rng != nil {
		idx = rng.IntN(len(pool))
	} else {
		idx = rand.IntN(len(pool))
	}
	return pool[idx], true
}

// Related resolves the related characters that exist in the reference.
func Related(language, character string) []Info {
	info, ok := Lookup(language, character)
	if !ok {
		return nil
	}
	var out []Info
	for _, rc := range info.Related {
		if ri, ok := Lookup(language, rc); ok {
			out = append(out, ri)
		}
	}
	return out
}

func collect(language string, keep func(Info) bool) []Info {
	var out []Info
	for _, c := range ref.categories[language] {
		for _, info := range c.Characters {
			if keep(info) {
				out = append(out, info)
			}
		}
	}
	return out
}
