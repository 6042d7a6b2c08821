package diagnosis

import (
	"sort"

	"github.com/Dionlucil/health-assistant/internal/catalog"
	"github.com/Dionlucil/health-assistant/internal/symptoms"
)

// ScoredCondition pairs a catalog entry with its match probability and the
// symptoms that produced the match.
type ScoredCondition struct {
	Condition   catalog.Condition `json:"condition"`
	Probability float64           `json:"probability"`
	Matched     []symptoms.ID     `json:"matched_symptoms"`
}

// Scorer ranks catalog conditions against a detected symptom set.
type Scorer struct {
	cat *catalog.Catalog
}

// NewScorer creates a scorer over the given catalog.
func NewScorer(cat *catalog.Catalog) *Scorer {
	return &Scorer{cat: cat}
}

// Score ranks conditions by overlap with the detected set and returns up to
// topN entries. The probability for a condition is the fraction of its
// defining symptoms present, with a 0.1 bonus once three or more overlap;
// clamping to 1.0 happens after the bonus. Conditions with zero overlap are
// omitted, and an empty detection yields an empty slice.
func (s *Scorer) Score(set *symptoms.Detection, topN int) []ScoredCondition {
	if set.Empty() || topN <= 0 {
		return nil
	}

	var scored []ScoredCondition
	for _, cond := range s.cat.Conditions() {
		var matched []symptoms.ID
		for _, sym := range cond.Symptoms {
			if set.Has(sym) {
				matched = append(matched, sym)
			}
		}
		if len(matched) == 0 {
			continue
		}

		p := float64(len(matched)) / float64(len(cond.Symptoms))
		if len(matched) >= 3 {
			p += 0.1
		}
		if p > 1.0 {
			p = 1.0
		}

		scored = append(scored, ScoredCondition{
			Condition:   cond,
			Probability: p,
			Matched:     matched,
		})
	}

	// Stable sort keeps catalog declaration order for equal probabilities.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Probability > scored[j].Probability
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}
