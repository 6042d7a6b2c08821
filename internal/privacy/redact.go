package privacy

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// Matches: 555-123-4567, (555) 123-4567, 555.123.4567, +1-555-123-4567, 555-1234
	phoneRegex = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]\d{4}|\b\d{3}[-.\s]\d{4}\b`)

	ssnRegex = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	creditCardRegex = regexp.MustCompile(`\b\d{4}[-\s]\d{4}[-\s]\d{4}[-\s]\d{4}\b`)

	// Medical record numbers and patient identifiers
	medicalIDRegex = regexp.MustCompile(`\b(MRN|Medical Record|Patient ID)[-:\s]*[A-Z0-9]{6,}\b`)
)

// RedactSensitiveData removes PII from text. Symptom wording is left
// untouched; only identifiers are replaced.
func RedactSensitiveData(text string) string {
	text = emailRegex.ReplaceAllString(text, "[EMAIL]")
	text = phoneRegex.ReplaceAllString(text, "[PHONE]")
	text = ssnRegex.ReplaceAllString(text, "[SSN]")
	text = creditCardRegex.ReplaceAllString(text, "[CARD]")

	text = medicalIDRegex.ReplaceAllStringFunc(text, func(s string) string {
		lower := strings.ToLower(s)
		if strings.Contains(lower, "mrn") ||
			strings.Contains(lower, "medical") ||
			strings.Contains(lower, "patient") {
			return "[MEDICAL_ID]"
		}
		return s
	})

	return text
}

// SanitizeForLogging prepares text for safe logging
func SanitizeForLogging(text string) string {
	redacted := RedactSensitiveData(text)

	if len(redacted) > 200 {
		return redacted[:197] + "..."
	}
	return redacted
}

// SanitizeForAPI removes PII before text leaves the service for an
// external classification model.
func SanitizeForAPI(text string) string {
	return RedactSensitiveData(text)
}

// SanitizeForStorage redacts identifiers from a chat message before it is
// persisted. Most messages carry none, so the containment check keeps the
// replacement passes off the common path.
func SanitizeForStorage(text string) string {
	if !ContainsPII(text) {
		return text
	}
	return RedactSensitiveData(text)
}

// ContainsPII checks if text contains potential PII
func ContainsPII(text string) bool {
	return emailRegex.MatchString(text) ||
		phoneRegex.MatchString(text) ||
		ssnRegex.MatchString(text) ||
		creditCardRegex.MatchString(text) ||
		medicalIDRegex.MatchString(text)
}
