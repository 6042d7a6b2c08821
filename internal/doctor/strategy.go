package doctor

import (
	"context"
	"log"

	"github.com/Dionlucil/health-assistant/internal/circuitbreaker"
	"github.com/Dionlucil/health-assistant/internal/privacy"
	"github.com/Dionlucil/health-assistant/internal/symptoms"
)

// Strategy extracts symptoms from free text. The keyword implementation is
// the default; a learned-model implementation may be substituted without
// touching the composer.
type Strategy interface {
	DetectSymptoms(ctx context.Context, text string) *symptoms.Detection
}

// KeywordStrategy wraps the deterministic lexicon detector. It never fails
// and ignores the context since detection is pure in-memory computation.
type KeywordStrategy struct {
	detector *symptoms.Detector
}

// NewKeywordStrategy creates the default detection strategy.
func NewKeywordStrategy(detector *symptoms.Detector) *KeywordStrategy {
	return &KeywordStrategy{detector: detector}
}

func (s *KeywordStrategy) DetectSymptoms(_ context.Context, text string) *symptoms.Detection {
	return s.detector.Detect(text)
}

// Labeler is the remote classification dependency of ModelStrategy.
type Labeler interface {
	Labels(ctx context.Context, text string) ([]string, error)
}

// ModelStrategy asks a remote model for symptom labels and filters them
// through the lexicon. Any failure, including an open circuit, falls back to
// keyword detection so the caller always gets a usable detection.
type ModelStrategy struct {
	labeler Labeler
	lex     *symptoms.Lexicon
	keyword *KeywordStrategy
	breaker *circuitbreaker.Breaker
}

// NewModelStrategy creates a model-backed strategy with keyword fallback.
func NewModelStrategy(labeler Labeler, lex *symptoms.Lexicon, keyword *KeywordStrategy, breaker *circuitbreaker.Breaker) *ModelStrategy {
	return &ModelStrategy{
		labeler: labeler,
		lex:     lex,
		keyword: keyword,
		breaker: breaker,
	}
}

func (s *ModelStrategy) DetectSymptoms(ctx context.Context, text string) *symptoms.Detection {
	// Identifiers never leave the service.
	sanitized := privacy.SanitizeForAPI(text)

	var labels []string
	err := s.breaker.Call(func() error {
		var callErr error
		labels, callErr = s.labeler.Labels(ctx, sanitized)
		return callErr
	})
	if err != nil {
		log.Printf("model detection failed, falling back to keywords: %v", err)
		return s.keyword.DetectSymptoms(ctx, text)
	}

	result := symptoms.NewDetection()
	for _, label := range labels {
		if id, ok := s.lex.Canonical(label); ok {
			result.Add(id)
		}
	}
	if result.Empty() {
		// The model recognized nothing in our vocabulary; keywords may
		// still find something.
		return s.keyword.DetectSymptoms(ctx, text)
	}
	return result
}
