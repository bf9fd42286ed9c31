package characters

import (
	"fmt"
	"strings"
)

// validate checks the parsed reference for structural problems and returns
// one combined error listing all of them.
func validate(r *reference) error {
	var errs []string

	for _, lang := range r.languages {
		seenCat := make(map[string]bool)
		seenChar := make(map[string]bool)
		for _, c := range r.categories[lang] {
			if c.ID == "" {
				errs = append(errs, fmt.Sprintf("%s: category with empty id", lang))
			}
			if seenCat[c.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate category %q", lang, c.ID))
			}
			seenCat[c.ID] = true

			for _, info := range c.Characters {
				if info.Character == "" {
					errs = append(errs, fmt.Sprintf("%s/%s: character with empty value", lang, c.ID))
					continue
				}
				if seenChar[info.Character] {
					errs = append(errs, fmt.Sprintf("%s: duplicate character %q", lang, info.Character))
				}
				seenChar[info.Character] = true
				if !info.Difficulty.Valid() {
					errs = append(errs, fmt.Sprintf("%s: character %q has invalid difficulty %q", lang, info.Character, info.Difficulty))
				}
				if info.Definition == "" {
					errs = append(errs, fmt.Sprintf("%s: character %q has no definition", lang, info.Character))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("reference validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
