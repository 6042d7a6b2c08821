package symptoms

import (
	"regexp"
	"strings"
)

// booster adds a symptom when a location or activity cue appears even without
// a direct phrase hit. Boosters run after the exact-key and variation scans
// and are strictly additive.
type booster struct {
	id   ID
	cues []string
}

var boosters = []booster{
	{ChestPain, []string{"left side", "left chest", "left rib", "left boob", "left breast", "chest"}},
	{DifficultyBreathing, []string{"breathing", "breathe", "breath"}},
}

// Detector extracts canonical symptoms from free text using the lexicon.
// It is stateless after construction and safe for concurrent use.
type Detector struct {
	lex             *Lexicon
	fillerRemover   *regexp.Regexp
	spaceNormalizer *regexp.Regexp
}

// NewDetector creates a detector over the given lexicon.
func NewDetector(lex *Lexicon) *Detector {
	return &Detector{
		lex: lex,
		// Strip filler phrases and standalone copulas so verb conjugation
		// does not shadow the symptom words that follow.
		fillerRemover:   regexp.MustCompile(`\b(i have|i feel|i'm experiencing|i am experiencing|am|is|are)\b`),
		spaceNormalizer: regexp.MustCompile(`\s+`),
	}
}

// Detect extracts the set of canonical symptoms present in text. Malformed or
// non-matching input yields an empty detection, never an error.
func (d *Detector) Detect(text string) *Detection {
	result := NewDetection()
	normalized := d.normalize(text)
	if normalized == "" {
		return result
	}

	// Exact-key scan: the identifier itself, underscores as spaces.
	for _, e := range d.lex.Entries() {
		if strings.Contains(normalized, Display(e.ID)) {
			result.Add(e.ID)
		}
	}

	// Variation scan, in lexicon declaration order.
	for _, e := range d.lex.Entries() {
		if result.Has(e.ID) {
			continue
		}
		for _, phrase := range e.Variations {
			if strings.Contains(normalized, phrase) {
				result.Add(e.ID)
				break
			}
		}
	}

	// Contextual boosters.
	for _, b := range boosters {
		if result.Has(b.id) {
			continue
		}
		for _, cue := range b.cues {
			if strings.Contains(normalized, cue) {
				result.Add(b.id)
				break
			}
		}
	}

	return result
}

func (d *Detector) normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = d.fillerRemover.ReplaceAllString(t, " ")
	t = d.spaceNormalizer.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
