package classifier

import (
	"regexp"
	"strings"

	"github.com/Dionlucil/health-assistant/internal/symptoms"
)

// Intent represents the classified intent of a user message
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentPrescription Intent = "prescription_request"
	IntentEmergency    Intent = "emergency"
	IntentSymptom      Intent = "symptom_description"
	IntentClarify      Intent = "clarification"
	IntentGratitude    Intent = "gratitude"
	IntentMedication   Intent = "medication_info"
	IntentSmallTalk    Intent = "small_talk"
	IntentDefault      Intent = "default"
)

// Result contains the classification result
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Classifier performs rule-based intent classification. The rules form an
// ordered cascade; first match wins, and the ordering is deliberate policy.
// In particular the emergency check runs before symptom detection, so an
// emergency keyword short-circuits ordinary symptom analysis even when the
// message also contains plain symptom words.
type Classifier struct {
	detector             *symptoms.Detector
	greetingPatterns     []*regexp.Regexp
	prescriptionPatterns []*regexp.Regexp
	emergencyPatterns    []*regexp.Regexp
	distressPatterns     []*regexp.Regexp
	clarifyPatterns      []*regexp.Regexp
	thanksPatterns       []*regexp.Regexp
	medicationPatterns   []*regexp.Regexp
	smallTalkPatterns    []*regexp.Regexp
	spaceNormalizer      *regexp.Regexp
}

// NewClassifier creates a new intent classifier backed by the given symptom
// detector.
func NewClassifier(detector *symptoms.Detector) *Classifier {
	return &Classifier{
		detector:        detector,
		spaceNormalizer: regexp.MustCompile(`\s+`),
		greetingPatterns: compilePatterns([]string{
			`\b(hi|hello|hey|hiya|howdy|good morning|good afternoon|good evening)\b`,
			`\bgreetings\b`,
		}),
		prescriptionPatterns: compilePatterns([]string{
			`\b(prescription|prescribe|prescriptions)\b`,
			`\btreatment\b`,
			`\bgive me\b.*\b(something|meds|medicine|medication)\b`,
			`\bwhat (should|can) i take\b`,
		}),
		emergencyPatterns: compilePatterns([]string{
			`\b(emergency|911|999|ambulance)\b`,
			`\b(dying|can't breathe at all|unconscious|passed out|heart attack|stroke|overdose)\b`,
			`\bcall (a )?doctor now\b`,
		}),
		distressPatterns: compilePatterns([]string{
			`\b(pain|hurt|hurting|hurts|ache|aching|aches)\b`,
			`\b(sick|unwell|ill|not feeling well|feel terrible|feel awful)\b`,
			`\bsomething('s| is) wrong\b`,
		}),
		clarifyPatterns: compilePatterns([]string{
			`\b(dosage|dose|how much|how many|how often)\b`,
			`\b(side effect|side effects|interactions?)\b`,
			`\bis it safe\b`,
		}),
		thanksPatterns: compilePatterns([]string{
			`\b(thanks|thank you|thx|thank u)\b`,
			`\bappreciate (it|that|you)\b`,
			`\bthat help(s|ed)\b`,
		}),
		medicationPatterns: compilePatterns([]string{
			`\b(medication|medications|medicine|medicines|drug|drugs|pill|pills|tablet|tablets)\b`,
			`\b(ibuprofen|acetaminophen|paracetamol|aspirin|antibiotic|antibiotics)\b`,
		}),
		smallTalkPatterns: compilePatterns([]string{
			`\b(hi|hello|hey)\b`,
			`\bhow are you\b`,
			`\bwhat's up\b`,
			`\b(bye|goodbye|see you)\b`,
			`\bwho are you\b`,
		}),
	}
}

// Classify determines the intent of the input message. hasHistory reports
// whether prior conversation turns exist; a greeting mid-conversation is
// treated as small talk rather than a fresh introduction.
func (c *Classifier) Classify(input string, hasHistory bool) Result {
	normalized := c.normalizeText(input)

	if normalized == "" {
		return Result{Intent: IntentDefault, Confidence: 0.1}
	}

	if !hasHistory && c.matchesPatterns(normalized, c.greetingPatterns) {
		return Result{Intent: IntentGreeting, Confidence: 0.9}
	}

	if c.matchesPatterns(normalized, c.prescriptionPatterns) {
		return Result{Intent: IntentPrescription, Confidence: 0.85}
	}

	if c.matchesPatterns(normalized, c.emergencyPatterns) {
		return Result{Intent: IntentEmergency, Confidence: 0.95}
	}

	if !c.detector.Detect(input).Empty() {
		return Result{Intent: IntentSymptom, Confidence: 0.85}
	}

	// General distress without a recognized symptom still routes to the
	// symptom branch; the composer falls back to a general assessment.
	if c.matchesPatterns(normalized, c.distressPatterns) {
		return Result{Intent: IntentSymptom, Confidence: 0.6}
	}

	if c.matchesPatterns(normalized, c.clarifyPatterns) {
		return Result{Intent: IntentClarify, Confidence: 0.8}
	}

	if c.matchesPatterns(normalized, c.thanksPatterns) {
		return Result{Intent: IntentGratitude, Confidence: 0.9}
	}

	if c.matchesPatterns(normalized, c.medicationPatterns) {
		return Result{Intent: IntentMedication, Confidence: 0.8}
	}

	if c.matchesPatterns(normalized, c.smallTalkPatterns) {
		return Result{Intent: IntentSmallTalk, Confidence: 0.7}
	}

	return Result{Intent: IntentDefault, Confidence: 0.3}
}

// normalizeText preprocesses input text for classification
func (c *Classifier) normalizeText(input string) string {
	text := strings.ToLower(input)
	text = strings.TrimSpace(text)
	text = c.spaceNormalizer.ReplaceAllString(text, " ")
	text = strings.TrimRight(text, "!?.,;:")
	return text
}

// matchesPatterns checks if any pattern matches
func (c *Classifier) matchesPatterns(text string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// compilePatterns compiles a slice of regex patterns
func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}
