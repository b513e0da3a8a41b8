package planner

import (
	"sort"
	"strings"
	"unicode"
)

// Exercise is a named movement and the body areas it loads
type Exercise struct {
	Name     string
	Stresses []string
}

// injuryKeywords maps whole words found in the injury text to body areas.
// A trailing plural "s" is accepted.
var injuryKeywords = map[string]string{
	"knee":      "knee",
	"acl":       "knee",
	"mcl":       "knee",
	"ankle":     "ankle",
	"achilles":  "ankle",
	"plantar":   "ankle",
	"calf":      "calf",
	"calves":    "calf",
	"shin":      "calf",
	"hamstring": "hamstring",
	"thigh":     "hamstring",
	"back":      "back",
	"spine":     "back",
	"lumbar":    "back",
	"shoulder":  "shoulder",
	"rotator":   "shoulder",
	"wrist":     "wrist",
	"hand":      "wrist",
	"elbow":     "elbow",
	"hip":       "hip",
	"groin":     "hip",
	"neck":      "neck",
	"whiplash":  "neck",
}

// injuryStems match any word that starts with them
var injuryStems = map[string]string{
	"patell":  "knee",
	"menisc":  "knee",
	"herniat": "back",
}

func areaForWord(word string) (string, bool) {
	if area, ok := injuryKeywords[word]; ok {
		return area, true
	}
	if singular, ok := strings.CutSuffix(word, "s"); ok {
		if area, ok := injuryKeywords[singular]; ok {
			return area, true
		}
	}
	for stem, area := range injuryStems {
		if strings.HasPrefix(word, stem) {
			return area, true
		}
	}
	return "", false
}

// InjuredAreas returns the sorted body areas mentioned in the injury text
func InjuredAreas(injury string) []string {
	words := strings.FieldsFunc(strings.ToLower(injury), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	seen := map[string]bool{}
	for _, w := range words {
		if area, ok := areaForWord(w); ok {
			seen[area] = true
		}
	}
	areas := make([]string, 0, len(seen))
	for a := range seen {
		areas = append(areas, a)
	}
	sort.Strings(areas)
	return areas
}

// FilterForInjury drops exercises that load an injured area. If nothing
// survives, fallback is returned instead, so the result is never empty as
// long as fallback is not.
func FilterForInjury(pool []Exercise, injury string, fallback []Exercise) []Exercise {
	areas := InjuredAreas(injury)
	if len(areas) == 0 {
		return pool
	}

	injured := make(map[string]bool, len(areas))
	for _, a := range areas {
		injured[a] = true
	}

	kept := make([]Exercise, 0, len(pool))
	for _, ex := range pool {
		safe := true
		for _, s := range ex.Stresses {
			if injured[s] {
				safe = false
				break
			}
		}
		if safe {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return fallback
	}
	return kept
}

func names(exs []Exercise) []string {
	out := make([]string, len(exs))
	for i, ex := range exs {
		out[i] = ex.Name
	}
	return out
}
