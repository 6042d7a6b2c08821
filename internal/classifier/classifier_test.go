package classifier

import (
	"testing"

	"github.com/Dionlucil/health-assistant/internal/symptoms"
)

func newClassifier() *Classifier {
	return NewClassifier(symptoms.NewDetector(symptoms.NewLexicon()))
}

func TestClassifier_Classify(t *testing.T) {
	c := newClassifier()

	tests := []struct {
		name       string
		input      string
		hasHistory bool
		wantIntent Intent
		minConf    float64
	}{
		{
			name:       "greeting without history",
			input:      "hello",
			hasHistory: false,
			wantIntent: IntentGreeting,
			minConf:    0.8,
		},
		{
			name:       "greeting mid conversation is small talk",
			input:      "hello",
			hasHistory: true,
			wantIntent: IntentSmallTalk,
			minConf:    0.5,
		},
		{
			name:       "prescription request",
			input:      "can you prescribe something for me",
			hasHistory: true,
			wantIntent: IntentPrescription,
			minConf:    0.7,
		},
		{
			name:       "prescription outranks symptom words",
			input:      "I need a treatment for my cough",
			hasHistory: false,
			wantIntent: IntentPrescription,
			minConf:    0.7,
		},
		{
			name:       "emergency keyword",
			input:      "this is an emergency, I think it's a heart attack",
			hasHistory: false,
			wantIntent: IntentEmergency,
			minConf:    0.9,
		},
		{
			name:       "emergency outranks symptom words",
			input:      "chest pain, call an ambulance",
			hasHistory: false,
			wantIntent: IntentEmergency,
			minConf:    0.9,
		},
		{
			name:       "symptom description",
			input:      "I have a fever and a sore throat",
			hasHistory: false,
			wantIntent: IntentSymptom,
			minConf:    0.8,
		},
		{
			name:       "general distress without recognized symptom",
			input:      "I feel really unwell today",
			hasHistory: false,
			wantIntent: IntentSymptom,
			minConf:    0.5,
		},
		{
			name:       "dosage question",
			input:      "what's the dosage for ibuprofen",
			hasHistory: true,
			wantIntent: IntentClarify,
			minConf:    0.7,
		},
		{
			name:       "side effects question",
			input:      "does it have side effects",
			hasHistory: true,
			wantIntent: IntentClarify,
			minConf:    0.7,
		},
		{
			name:       "gratitude",
			input:      "thanks, that helps a lot",
			hasHistory: true,
			wantIntent: IntentGratitude,
			minConf:    0.8,
		},
		{
			name:       "medication question",
			input:      "which medications do you recommend",
			hasHistory: true,
			wantIntent: IntentMedication,
			minConf:    0.7,
		},
		{
			name:       "small talk",
			input:      "how are you today?",
			hasHistory: false,
			wantIntent: IntentSmallTalk,
			minConf:    0.5,
		},
		{
			name:       "empty input",
			input:      "",
			hasHistory: false,
			wantIntent: IntentDefault,
			minConf:    0,
		},
		{
			name:       "unrecognized input",
			input:      "tell me about the weather",
			hasHistory: false,
			wantIntent: IntentDefault,
			minConf:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.input, tt.hasHistory)
			if got.Intent != tt.wantIntent {
				t.Errorf("Classify(%q, history=%v) = %s, want %s", tt.input, tt.hasHistory, got.Intent, tt.wantIntent)
			}
			if got.Confidence < tt.minConf {
				t.Errorf("Classify(%q) confidence = %.2f, want >= %.2f", tt.input, got.Confidence, tt.minConf)
			}
		})
	}
}
