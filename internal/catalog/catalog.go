package catalog

import (
	"fmt"

	"github.com/Dionlucil/health-assistant/internal/symptoms"
	"github.com/Dionlucil/health-assistant/internal/triage"
)

// Condition is one immutable catalog entry: a condition, its defining
// symptoms, and the advice and medications offered for it.
type Condition struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Symptoms    []symptoms.ID `json:"symptoms"`
	Description string        `json:"description"`
	Urgency     triage.Level  `json:"urgency"`
	Advice      []string      `json:"advice"`
	Medications []string      `json:"medications"`
}

// conditions is declared in a fixed order; scoring ties are broken by this
// declaration order.
var conditions = []Condition{
	{
		ID:   "common_cold",
		Name: "Common Cold",
		Symptoms: []symptoms.ID{
			symptoms.RunnyNose, symptoms.Sneezing, symptoms.SoreThroat,
			symptoms.Cough, symptoms.Congestion, symptoms.MildFever,
		},
		Description: "A viral infection of the upper respiratory tract that is generally harmless.",
		Urgency:     triage.Low,
		Advice: []string{
			"Get plenty of rest and stay hydrated",
			"Use over-the-counter pain relievers if needed",
			"Try warm salt water gargling for sore throat",
			"Consider using a humidifier",
		},
		Medications: []string{"Acetaminophen", "Decongestants", "Throat lozenges"},
	},
	{
		ID:   "influenza",
		Name: "Influenza (Flu)",
		Symptoms: []symptoms.ID{
			symptoms.Fever, symptoms.Fatigue, symptoms.MuscleAches,
			symptoms.Headache, symptoms.Cough, symptoms.SoreThroat,
		},
		Description: "A viral infection that attacks the respiratory system with more severe symptoms than a cold.",
		Urgency:     triage.Medium,
		Advice: []string{
			"Rest and stay well-hydrated",
			"Consider antiviral medication if within 48 hours of symptom onset",
			"Monitor fever and seek care if it persists",
			"Avoid contact with others to prevent spread",
		},
		Medications: []string{"Acetaminophen", "Ibuprofen", "Cough suppressants"},
	},
	{
		ID:   "gastroenteritis",
		Name: "Gastroenteritis",
		Symptoms: []symptoms.ID{
			symptoms.Nausea, symptoms.Vomiting, symptoms.Diarrhea,
			symptoms.AbdominalPain, symptoms.Fever, symptoms.Fatigue,
		},
		Description: "Inflammation of the stomach and intestines, often called stomach flu.",
		Urgency:     triage.Medium,
		Advice: []string{
			"Stay hydrated with clear fluids",
			"Follow the BRAT diet (bananas, rice, applesauce, toast)",
			"Avoid dairy and fatty foods temporarily",
			"Seek care if symptoms worsen or persist",
		},
		Medications: []string{"Oral rehydration salts", "Antiemetics", "Loperamide"},
	},
	{
		ID:   "migraine",
		Name: "Migraine Headache",
		Symptoms: []symptoms.ID{
			symptoms.Headache, symptoms.Nausea, symptoms.Dizziness,
			symptoms.SensitivityToLight,
		},
		Description: "A type of headache that can cause severe throbbing pain, usually on one side of the head.",
		Urgency:     triage.Medium,
		Advice: []string{
			"Rest in a quiet, dark room",
			"Apply cold or warm compress to head or neck",
			"Stay hydrated and maintain regular sleep schedule",
			"Consider over-the-counter pain relievers",
		},
		Medications: []string{"Ibuprofen", "Acetaminophen", "Caffeine"},
	},
	{
		ID:   "anxiety_disorder",
		Name: "Anxiety",
		Symptoms: []symptoms.ID{
			symptoms.Anxiety, symptoms.DifficultySleeping, symptoms.Fatigue,
			symptoms.MuscleTension, symptoms.Headache,
		},
		Description: "A mental health condition characterized by excessive worry and physical symptoms.",
		Urgency:     triage.Medium,
		Advice: []string{
			"Practice deep breathing and relaxation techniques",
			"Maintain regular exercise and sleep schedule",
			"Limit caffeine and alcohol intake",
			"Consider speaking with a mental health professional",
		},
		Medications: []string{"Anti-anxiety medication", "Melatonin"},
	},
	{
		ID:   "respiratory_infection",
		Name: "Respiratory Infection",
		Symptoms: []symptoms.ID{
			symptoms.Cough, symptoms.DifficultyBreathing, symptoms.ChestPain,
			symptoms.Fever, symptoms.Fatigue,
		},
		Description: "An infection affecting the respiratory system that may require medical attention.",
		Urgency:     triage.High,
		Advice: []string{
			"Seek medical attention promptly",
			"Monitor breathing difficulty",
			"Rest and stay hydrated",
			"Avoid strenuous activities",
		},
		Medications: []string{"Bronchodilators", "Acetaminophen", "Expectorants"},
	},
	{
		ID:   "muscle_strain",
		Name: "Muscle Strain",
		Symptoms: []symptoms.ID{
			symptoms.BackPain, symptoms.MuscleAches, symptoms.MuscleTension,
		},
		Description: "Overstretched or overworked muscle tissue, commonly from overexertion or poor posture.",
		Urgency:     triage.Low,
		Advice: []string{
			"Rest the affected area and avoid heavy lifting",
			"Apply ice for the first day, then heat",
			"Try gentle stretching once pain eases",
		},
		Medications: []string{"Ibuprofen", "Naproxen"},
	},
	{
		ID:   "dehydration",
		Name: "Dehydration",
		Symptoms: []symptoms.ID{
			symptoms.Dizziness, symptoms.Headache, symptoms.Fatigue,
		},
		Description: "Insufficient fluid intake or fluid loss, a frequent cause of dizziness and headaches.",
		Urgency:     triage.Low,
		Advice: []string{
			"Drink water or an electrolyte solution steadily",
			"Avoid caffeine and alcohol until recovered",
			"Rest and avoid sudden movements",
		},
		Medications: []string{"Electrolytes"},
	},
}

// unknown is returned for distress messages with no recognizable symptom.
var unknown = Condition{
	ID:          "general_concern",
	Name:        "General health concern",
	Description: "Symptoms that need more detail before a specific assessment can be made.",
	Urgency:     triage.Low,
	Advice:      []string{"Rest and monitor symptoms"},
}

// Catalog holds the immutable condition entries, validated against the
// lexicon at construction.
type Catalog struct {
	conditions []Condition
	byID       map[string]int
}

// New builds the catalog, verifying that every symptom referenced by a
// condition exists in the lexicon. A missing reference is a data-authoring
// bug; the process must refuse to start rather than silently degrade.
func New(lex *symptoms.Lexicon) (*Catalog, error) {
	c := &Catalog{
		conditions: conditions,
		byID:       make(map[string]int, len(conditions)),
	}
	for i, cond := range c.conditions {
		for _, sym := range cond.Symptoms {
			if !lex.Contains(sym) {
				return nil, fmt.Errorf("condition %q references unknown symptom %q", cond.ID, sym)
			}
		}
		c.byID[cond.ID] = i
	}
	return c, nil
}

// Conditions returns all entries in declaration order.
func (c *Catalog) Conditions() []Condition {
	return c.conditions
}

// Get looks up a condition by ID.
func (c *Catalog) Get(id string) (Condition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Condition{}, false
	}
	return c.conditions[i], true
}

// Unknown returns the fallback condition used when no symptom is recognized.
func (c *Catalog) Unknown() Condition {
	return unknown
}
