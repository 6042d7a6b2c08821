package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dionlucil/health-assistant/internal/catalog"
	"github.com/Dionlucil/health-assistant/internal/classifier"
	"github.com/Dionlucil/health-assistant/internal/diagnosis"
	"github.com/Dionlucil/health-assistant/internal/symptoms"
	"github.com/Dionlucil/health-assistant/internal/triage"
)

// Turn is one prior message in a chat conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ConsultationResponse is the composed reply for one chat message.
type ConsultationResponse struct {
	Narrative        string                      `json:"narrative"`
	Intent           classifier.Intent           `json:"intent"`
	Urgency          triage.Level                `json:"urgency"`
	Conditions       []diagnosis.ScoredCondition `json:"conditions,omitempty"`
	Medications      []string                    `json:"medications"`
	Advice           []string                    `json:"advice"`
	RequiresFollowUp bool                        `json:"requires_follow_up"`
	Timestamp        time.Time                   `json:"timestamp"`
}

// Analysis is the structured result of the symptom-form flow.
type Analysis struct {
	Conditions  []diagnosis.ScoredCondition `json:"conditions"`
	Urgency     triage.Level                `json:"urgency"`
	Medications []string                    `json:"medications"`
	Advice      []string                    `json:"advice"`
	Disclaimer  string                      `json:"disclaimer"`
	Timestamp   time.Time                   `json:"timestamp"`
}

// Demographics carries the user scalars supplied by the symptom form.
type Demographics struct {
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Severity string `json:"severity"`
	Duration string `json:"duration"`
}

// AnalyzeInput is the structured-flow request: either a list of symptom
// tokens, free text, or both.
type AnalyzeInput struct {
	Symptoms     []string     `json:"symptoms"`
	Text         string       `json:"text"`
	Demographics Demographics `json:"demographics"`
}

// Doctor composes consultation responses from the detection, scoring, and
// triage components. It holds only immutable data after construction and is
// safe for concurrent use.
type Doctor struct {
	lex        *symptoms.Lexicon
	cat        *catalog.Catalog
	scorer     *diagnosis.Scorer
	classifier *classifier.Classifier
	strategy   Strategy
	now        func() time.Time
}

// New creates a doctor using keyword detection.
func New(lex *symptoms.Lexicon, cat *catalog.Catalog) *Doctor {
	detector := symptoms.NewDetector(lex)
	return &Doctor{
		lex:        lex,
		cat:        cat,
		scorer:     diagnosis.NewScorer(cat),
		classifier: classifier.NewClassifier(detector),
		strategy:   NewKeywordStrategy(detector),
		now:        time.Now,
	}
}

// WithStrategy replaces the detection strategy, keeping the classifier's
// deterministic keyword routing intact.
func (d *Doctor) WithStrategy(s Strategy) *Doctor {
	d.strategy = s
	return d
}

// Analyze runs the structured symptom-form flow. Symptom tokens are resolved
// through the lexicon; unresolved tokens are ignored, and free text, when
// present, supplements the set. Malformed input yields the default guidance
// response, never an error.
func (d *Doctor) Analyze(ctx context.Context, input AnalyzeInput) Analysis {
	set := symptoms.NewDetection()
	for _, token := range input.Symptoms {
		if id, ok := d.lex.Canonical(token); ok {
			set.Add(id)
		}
	}
	if strings.TrimSpace(input.Text) != "" {
		for _, id := range d.strategy.DetectSymptoms(ctx, input.Text).IDs() {
			set.Add(id)
		}
	}

	if set.Empty() {
		return Analysis{
			Urgency: triage.Low,
			Advice: []string{
				"If you are experiencing symptoms, please select them for a proper assessment",
				"Maintain a healthy lifestyle with regular exercise and balanced nutrition",
				"Schedule regular check-ups with your healthcare provider",
				"Seek immediate medical attention for any emergency symptoms",
			},
			Disclaimer: disclaimer,
			Timestamp:  d.now().UTC(),
		}
	}

	severity := triage.ParseSeverity(input.Demographics.Severity)
	scored := d.scorer.Score(set, 3)

	var medications []string
	for _, sc := range scored {
		medications = append(medications, sc.Condition.Medications...)
	}

	return Analysis{
		Conditions:  scored,
		Urgency:     triage.Classify(set, severity),
		Medications: dedupLimit(medications, 5),
		Advice:      d.generateAdvice(set, severity, input.Demographics.Age),
		Disclaimer:  disclaimer,
		Timestamp:   d.now().UTC(),
	}
}

// generateAdvice builds the personalized advice list for the form flow.
func (d *Doctor) generateAdvice(set *symptoms.Detection, severity triage.Severity, age int) []string {
	advice := []string{
		"Monitor your symptoms and note any changes",
		"Stay well-hydrated by drinking plenty of fluids",
		"Get adequate rest to help your body recover",
	}

	if set.Has(symptoms.Fever) || set.Has(symptoms.MildFever) {
		advice = append(advice, "Monitor your temperature and consider fever reducers if needed")
	}
	if set.Has(symptoms.Cough) {
		advice = append(advice, "Use a humidifier or breathe steam to soothe your throat")
	}
	if set.Has(symptoms.Headache) || set.Has(symptoms.SevereHeadache) {
		advice = append(advice, "Try resting in a quiet, dark room")
	}
	if set.Has(symptoms.Nausea) || set.Has(symptoms.Vomiting) {
		advice = append(advice, "Eat small, frequent meals and avoid greasy foods")
	}

	if age >= 65 {
		advice = append(advice, "Consider contacting your healthcare provider due to increased risk factors")
	} else if age > 0 && age <= 18 {
		advice = append(advice, "Ensure proper supervision and consider pediatric-specific care")
	}

	if severity == triage.SeveritySevere {
		advice = append(advice, "Consider seeking medical attention due to symptom severity")
	}

	return advice
}

// Respond runs the chat flow: classify intent, then compose the matching
// reply. Every textual input yields a well-formed response; nothing escapes
// as an error to the end user.
func (d *Doctor) Respond(ctx context.Context, message string, history []Turn) ConsultationResponse {
	result := d.classifier.Classify(message, len(history) > 0)

	switch result.Intent {
	case classifier.IntentGreeting:
		return d.canned(result.Intent, greetingNarrative, triage.Low, false)

	case classifier.IntentPrescription:
		return d.prescribe(ctx, result.Intent, history)

	case classifier.IntentEmergency:
		return ConsultationResponse{
			Narrative:        emergencyNarrative,
			Intent:           result.Intent,
			Urgency:          triage.High,
			Medications:      []string{},
			Advice:           []string{"Call emergency services immediately"},
			RequiresFollowUp: false,
			Timestamp:        d.now().UTC(),
		}

	case classifier.IntentSymptom:
		return d.diagnose(ctx, result.Intent, message)

	case classifier.IntentClarify:
		return d.canned(result.Intent, clarificationNarrative, triage.Low, false)

	case classifier.IntentGratitude:
		return d.canned(result.Intent, gratitudeNarrative, triage.Low, false)

	case classifier.IntentMedication:
		return d.canned(result.Intent, medicationNarrative, triage.Low, false)

	case classifier.IntentSmallTalk:
		return d.canned(result.Intent, smallTalkNarrative, triage.Low, false)

	default:
		return d.canned(result.Intent, defaultNarrative, triage.Low, true)
	}
}

func (d *Doctor) canned(intent classifier.Intent, narrative string, urgency triage.Level, followUp bool) ConsultationResponse {
	return ConsultationResponse{
		Narrative:        narrative,
		Intent:           intent,
		Urgency:          urgency,
		Medications:      []string{},
		Advice:           []string{},
		RequiresFollowUp: followUp,
		Timestamp:        d.now().UTC(),
	}
}

// prescribe aggregates symptoms across all prior user turns and produces a
// prescription-style reply, or asks for symptoms when the history yields
// nothing.
func (d *Doctor) prescribe(ctx context.Context, intent classifier.Intent, history []Turn) ConsultationResponse {
	var prior []string
	for _, turn := range history {
		if turn.Role == "user" {
			prior = append(prior, turn.Text)
		}
	}

	set := symptoms.NewDetection()
	if len(prior) > 0 {
		set = d.strategy.DetectSymptoms(ctx, strings.Join(prior, " "))
	}

	if set.Empty() {
		return ConsultationResponse{
			Narrative:        prescriptionAskNarrative,
			Intent:           intent,
			Urgency:          triage.Low,
			Medications:      []string{},
			Advice:           []string{"Please describe your symptoms for a treatment plan"},
			RequiresFollowUp: true,
			Timestamp:        d.now().UTC(),
		}
	}

	scored := d.scorer.Score(set, 3)
	urgency := triage.Classify(set, triage.SeverityUnspecified)

	var medications []string
	for _, sc := range scored {
		medications = append(medications, sc.Condition.Medications...)
	}
	medications = dedupLimit(medications, 3)

	top := d.cat.Unknown()
	if len(scored) > 0 {
		top = scored[0].Condition
	}
	advice := "Rest and monitor your symptoms"
	if len(top.Advice) > 0 {
		advice = top.Advice[0]
	}

	narrative := fmt.Sprintf(
		"Based on your symptoms, here's your treatment plan: %s. Take as directed for %s. %s. Follow up if symptoms persist or worsen.",
		strings.Join(medications, ", "), top.Name, advice,
	)

	return ConsultationResponse{
		Narrative:        narrative,
		Intent:           intent,
		Urgency:          urgency,
		Conditions:       scored,
		Medications:      medications,
		Advice:           []string{advice},
		RequiresFollowUp: false,
		Timestamp:        d.now().UTC(),
	}
}

// diagnose analyzes the current message alone. The combination table is
// consulted before the generic template.
func (d *Doctor) diagnose(ctx context.Context, intent classifier.Intent, message string) ConsultationResponse {
	set := d.strategy.DetectSymptoms(ctx, message)
	urgency := triage.Classify(set, triage.ExtractSeverity(message))

	if combo, ok := matchCombination(set); ok {
		return ConsultationResponse{
			Narrative:        combo.narrative,
			Intent:           intent,
			Urgency:          urgency,
			Medications:      combo.medications,
			Advice:           combo.advice,
			RequiresFollowUp: true,
			Timestamp:        d.now().UTC(),
		}
	}

	if set.Empty() {
		// General distress with no recognizable symptom.
		unknown := d.cat.Unknown()
		return ConsultationResponse{
			Narrative: generalConcernNarrative,
			Intent:    intent,
			Urgency:   unknown.Urgency,
			Conditions: []diagnosis.ScoredCondition{
				{Condition: unknown, Probability: 0},
			},
			Medications:      []string{},
			Advice:           unknown.Advice,
			RequiresFollowUp: true,
			Timestamp:        d.now().UTC(),
		}
	}

	scored := d.scorer.Score(set, 3)
	if len(scored) == 0 {
		return d.canned(intent, defaultNarrative, urgency, true)
	}

	var names, medications, advice []string
	for _, sc := range scored {
		names = append(names, sc.Condition.Name)
		medications = append(medications, sc.Condition.Medications...)
		advice = append(advice, sc.Condition.Advice...)
	}
	medications = dedupLimit(medications, 3)

	firstAdvice := "rest and monitoring"
	if len(advice) > 0 {
		firstAdvice = advice[0]
	}

	narrative := fmt.Sprintf(
		"Based on your symptoms, you appear to have %s. I recommend %s. You can take %s to help manage your symptoms. Let me know if your symptoms worsen or persist beyond a few days.",
		joinTop(names, 2), strings.ToLower(firstAdvice[:1])+firstAdvice[1:], joinTop(medications, 2),
	)

	return ConsultationResponse{
		Narrative:        narrative,
		Intent:           intent,
		Urgency:          urgency,
		Conditions:       scored,
		Medications:      medications,
		Advice:           dedupLimit(advice, 2),
		RequiresFollowUp: true,
		Timestamp:        d.now().UTC(),
	}
}

// joinTop joins at most n items with a comma, with no trailing separator for
// short lists.
func joinTop(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

// dedupLimit removes duplicates preserving first occurrence and caps the
// result at n entries.
func dedupLimit(items []string, n int) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, n)
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if len(out) == n {
			break
		}
	}
	return out
}
