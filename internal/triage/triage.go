package triage

import (
	"strings"

	"github.com/Dionlucil/health-assistant/internal/symptoms"
)

// Level is the three-tier urgency classification driving follow-up messaging.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// Severity is the user's self-reported symptom severity.
type Severity string

const (
	SeverityMild        Severity = "mild"
	SeverityModerate    Severity = "moderate"
	SeveritySevere      Severity = "severe"
	SeverityUnspecified Severity = "unspecified"
)

// emergencySymptoms escalate to high urgency regardless of stated severity.
// A user may understate severity while reporting an emergency symptom, so
// this check takes absolute priority.
var emergencySymptoms = []symptoms.ID{
	symptoms.ChestPain,
	symptoms.DifficultyBreathing,
	symptoms.SevereHeadache,
	symptoms.SevereAbdominalPain,
	symptoms.Confusion,
}

// urgentSymptoms escalate to medium urgency when severity gives no stronger
// signal.
var urgentSymptoms = []symptoms.ID{
	symptoms.Fever,
	symptoms.PersistentVomiting,
	symptoms.Dizziness,
}

// Classify maps a symptom set plus stated severity to an urgency level.
// Rules are evaluated top to bottom, first match wins; the order is
// load-bearing (severity override must not be short-circuited by the
// urgent-set check).
func Classify(set *symptoms.Detection, severity Severity) Level {
	for _, id := range emergencySymptoms {
		if set.Has(id) {
			return High
		}
	}

	switch severity {
	case SeveritySevere:
		return High
	case SeverityModerate:
		return Medium
	}

	for _, id := range urgentSymptoms {
		if set.Has(id) {
			return Medium
		}
	}

	return Low
}

// ParseSeverity normalizes a raw severity value from a form field.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mild":
		return SeverityMild
	case "moderate":
		return SeverityModerate
	case "severe":
		return SeveritySevere
	default:
		return SeverityUnspecified
	}
}

var (
	severeCues   = []string{"severe", "really bad", "terrible", "excruciating", "unbearable", "can't handle", "worst"}
	moderateCues = []string{"moderate", "pretty bad", "uncomfortable", "bothering"}
	mildCues     = []string{"mild", "slight", "a little", "a bit of"}
)

// ExtractSeverity infers stated severity from free text. Returns
// SeverityUnspecified when the message gives no signal, leaving escalation
// to the symptom-set rules.
func ExtractSeverity(text string) Severity {
	lower := strings.ToLower(text)

	for _, cue := range severeCues {
		if strings.Contains(lower, cue) {
			return SeveritySevere
		}
	}
	for _, cue := range moderateCues {
		if strings.Contains(lower, cue) {
			return SeverityModerate
		}
	}
	for _, cue := range mildCues {
		if strings.Contains(lower, cue) {
			return SeverityMild
		}
	}

	return SeverityUnspecified
}
