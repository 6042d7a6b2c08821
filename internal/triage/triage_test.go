package triage

import (
	"testing"

	"github.com/Dionlucil/health-assistant/internal/symptoms"
)

func detection(ids ...symptoms.ID) *symptoms.Detection {
	set := symptoms.NewDetection()
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		set      *symptoms.Detection
		severity Severity
		want     Level
	}{
		{
			name:     "emergency symptom overrides mild severity",
			set:      detection(symptoms.ChestPain),
			severity: SeverityMild,
			want:     High,
		},
		{
			name:     "difficulty breathing is emergency",
			set:      detection(symptoms.DifficultyBreathing),
			severity: SeverityUnspecified,
			want:     High,
		},
		{
			name:     "severe severity alone escalates",
			set:      detection(),
			severity: SeveritySevere,
			want:     High,
		},
		{
			name:     "empty set unspecified is low",
			set:      detection(),
			severity: SeverityUnspecified,
			want:     Low,
		},
		{
			name:     "moderate severity",
			set:      detection(symptoms.Cough),
			severity: SeverityModerate,
			want:     Medium,
		},
		{
			name:     "urgent symptom without severity",
			set:      detection(symptoms.Fever),
			severity: SeverityUnspecified,
			want:     Medium,
		},
		{
			name:     "urgent symptom with mild severity stays medium",
			set:      detection(symptoms.Dizziness),
			severity: SeverityMild,
			want:     Medium,
		},
		{
			name:     "ordinary symptom is low",
			set:      detection(symptoms.RunnyNose),
			severity: SeverityMild,
			want:     Low,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.set, tt.severity); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"mild", SeverityMild},
		{"Moderate", SeverityModerate},
		{" SEVERE ", SeveritySevere},
		{"", SeverityUnspecified},
		{"bananas", SeverityUnspecified},
	}
	for _, tt := range tests {
		if got := ParseSeverity(tt.in); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"I have a really bad headache", SeveritySevere},
		{"the pain is unbearable", SeveritySevere},
		{"it's pretty bad today", SeverityModerate},
		{"just a slight cough", SeverityMild},
		{"I have a cough", SeverityUnspecified},
	}
	for _, tt := range tests {
		if got := ExtractSeverity(tt.in); got != tt.want {
			t.Errorf("ExtractSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
