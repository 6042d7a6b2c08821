package diagnosis

import (
	"math"
	"testing"

	"github.com/Dionlucil/health-assistant/internal/catalog"
	"github.com/Dionlucil/health-assistant/internal/symptoms"
)

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	cat, err := catalog.New(symptoms.NewLexicon())
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return NewScorer(cat)
}

func detection(ids ...symptoms.ID) *symptoms.Detection {
	set := symptoms.NewDetection()
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

func TestScorer_BonusBoundary(t *testing.T) {
	s := newScorer(t)

	// Influenza defines 6 symptoms; an overlap of exactly 3 earns the flat
	// 0.1 bonus, so 3/6 scores 0.6 rather than 0.5. The bonus is applied
	// before clamping.
	scored := s.Score(detection(symptoms.Fever, symptoms.Headache, symptoms.Cough), 3)
	if len(scored) == 0 {
		t.Fatal("expected scored conditions")
	}

	if scored[0].Condition.ID != "influenza" {
		t.Fatalf("top condition = %q, want influenza", scored[0].Condition.ID)
	}
	if math.Abs(scored[0].Probability-0.6) > 1e-9 {
		t.Errorf("influenza probability = %v, want 0.6", scored[0].Probability)
	}
	if len(scored[0].Matched) != 3 {
		t.Errorf("matched = %v, want 3 symptoms", scored[0].Matched)
	}
}

func TestScorer_ClampAfterBonus(t *testing.T) {
	s := newScorer(t)

	// All four migraine symptoms present: 4/4 + 0.1 clamps to 1.0.
	scored := s.Score(detection(
		symptoms.Headache, symptoms.Nausea, symptoms.Dizziness, symptoms.SensitivityToLight,
	), 1)
	if len(scored) != 1 {
		t.Fatalf("len = %d, want 1", len(scored))
	}
	if scored[0].Condition.ID != "migraine" {
		t.Fatalf("top condition = %q, want migraine", scored[0].Condition.ID)
	}
	if scored[0].Probability != 1.0 {
		t.Errorf("probability = %v, want 1.0", scored[0].Probability)
	}
}

func TestScorer_TieBrokenByCatalogOrder(t *testing.T) {
	s := newScorer(t)

	// Fatigue alone matches anxiety_disorder and respiratory_infection at
	// the same 1/5; declaration order decides.
	scored := s.Score(detection(symptoms.Fatigue), 4)
	if len(scored) < 2 {
		t.Fatalf("len = %d, want at least 2", len(scored))
	}
	if scored[0].Condition.ID != "anxiety_disorder" {
		t.Errorf("scored[0] = %q, want anxiety_disorder", scored[0].Condition.ID)
	}
	if scored[1].Condition.ID != "respiratory_infection" {
		t.Errorf("scored[1] = %q, want respiratory_infection", scored[1].Condition.ID)
	}
}

func TestScorer_EmptyAndNoOverlap(t *testing.T) {
	s := newScorer(t)

	if got := s.Score(detection(), 3); len(got) != 0 {
		t.Errorf("empty detection scored %d conditions", len(got))
	}
	if got := s.Score(detection(symptoms.Fever), 0); len(got) != 0 {
		t.Errorf("topN=0 scored %d conditions", len(got))
	}

	// Confusion belongs to no condition; zero-overlap entries are excluded.
	if got := s.Score(detection(symptoms.Confusion), 3); len(got) != 0 {
		t.Errorf("no-overlap detection scored %d conditions", len(got))
	}
}

func TestScorer_BoundsAndLimit(t *testing.T) {
	s := newScorer(t)

	scored := s.Score(detection(
		symptoms.Fever, symptoms.Headache, symptoms.Cough,
		symptoms.Fatigue, symptoms.Nausea,
	), 3)
	if len(scored) > 3 {
		t.Fatalf("len = %d, want at most 3", len(scored))
	}
	for i, sc := range scored {
		if sc.Probability < 0 || sc.Probability > 1 {
			t.Errorf("probability out of range: %v", sc.Probability)
		}
		if i > 0 && sc.Probability > scored[i-1].Probability {
			t.Errorf("not sorted descending at %d", i)
		}
		if len(sc.Matched) == 0 {
			t.Errorf("condition %q has no matched symptoms", sc.Condition.ID)
		}
	}
}
