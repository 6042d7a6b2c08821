package doctor

import "github.com/Dionlucil/health-assistant/internal/symptoms"

const (
	greetingNarrative = "Hello! I'm Dr. Sarah Chen, your virtual medical assistant. I'm here to help you with your health concerns. Please describe your symptoms or ask any health-related questions, and I'll provide guidance and treatment recommendations based on what you tell me."

	emergencyNarrative = "This sounds like a medical emergency. Please call emergency services (911) immediately or go to the nearest emergency room. Your symptoms require immediate medical attention."

	prescriptionAskNarrative = "I'd be happy to provide a treatment plan. To do this effectively, I need to understand your symptoms better. Could you please describe what you're experiencing? For example: chest pain, difficulty breathing, fever."

	clarificationNarrative = "Dosage and side effects depend on the specific medication and your medical history. Always follow the directions on the label, and check with a pharmacist or your healthcare provider before combining medications or changing a dose."

	gratitudeNarrative = "You're very welcome! I'm glad I could help. Don't hesitate to reach out if your symptoms change or you have more questions. Take care of yourself!"

	medicationNarrative = "I can suggest over-the-counter options once I know what you're treating. Tell me which symptoms are bothering you and I'll recommend appropriate medications and how to use them safely."

	smallTalkNarrative = "I'm here and ready to help. Is there anything about your health you'd like to discuss today?"

	defaultNarrative = "I understand you have health concerns, and I'd like to help. Could you describe your symptoms in more detail? Tell me about the severity, duration, and anything else you're experiencing so I can give you a proper assessment."

	generalConcernNarrative = "It sounds like something is bothering you, but I couldn't pin down a specific symptom. Could you tell me more precisely what you're feeling and where? That will let me give you a proper assessment."

	disclaimer = "This assessment is for informational purposes only and does not constitute medical advice. Please consult with a healthcare professional for proper diagnosis and treatment."
)

// combination is a symptom pairing with a dedicated narrative that overrides
// the generic template. The table is checked in order before the generic
// path; first full match wins.
type combination struct {
	symptoms    []symptoms.ID
	narrative   string
	medications []string
	advice      []string
}

var combinations = []combination{
	{
		symptoms:    []symptoms.ID{symptoms.ChestPain, symptoms.DifficultyBreathing},
		narrative:   "Based on your symptoms of chest pain and difficulty breathing, this could be costochondritis (inflammation of rib cartilage) or an asthma exacerbation. I recommend: 1) Use your asthma inhaler if prescribed, 2) Take ibuprofen 400mg every 6-8 hours for pain, 3) Avoid sleeping on the painful side, 4) Apply heat to the painful area. Monitor your breathing closely, and if it worsens, seek medical care immediately.",
		medications: []string{"Ibuprofen 400mg", "Asthma inhaler (if prescribed)", "Heat therapy"},
		advice:      []string{"Use asthma inhaler if prescribed", "Apply heat to the painful area", "Monitor breathing closely"},
	},
	{
		symptoms:    []symptoms.ID{symptoms.Fever, symptoms.Headache},
		narrative:   "You have a fever with headache, which suggests you're fighting an infection. I recommend rest, plenty of fluids, and acetaminophen or ibuprofen to reduce fever and pain. This is likely a viral infection that should resolve in 3-5 days. Seek care if you develop a stiff neck, severe headache, or rash.",
		medications: []string{"Acetaminophen", "Ibuprofen"},
		advice:      []string{"Rest, fluids, fever management", "Monitor for severe symptoms"},
	},
}

// matchCombination returns the first combination whose symptoms are all
// present in the detection.
func matchCombination(set *symptoms.Detection) (combination, bool) {
	for _, combo := range combinations {
		all := true
		for _, id := range combo.symptoms {
			if !set.Has(id) {
				all = false
				break
			}
		}
		if all {
			return combo, true
		}
	}
	return combination{}, false
}
