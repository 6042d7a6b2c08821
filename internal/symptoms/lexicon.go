package symptoms

import "strings"

// ID is the canonical identifier for one symptom concept. The set is closed
// and fixed at build time; every ID referenced elsewhere (catalog entries,
// triage rules) must appear in the lexicon below.
type ID string

const (
	Fever               ID = "fever"
	MildFever           ID = "mild_fever"
	Headache            ID = "headache"
	SevereHeadache      ID = "severe_headache"
	Cough               ID = "cough"
	Fatigue             ID = "fatigue"
	Nausea              ID = "nausea"
	Vomiting            ID = "vomiting"
	PersistentVomiting  ID = "persistent_vomiting"
	SoreThroat          ID = "sore_throat"
	RunnyNose           ID = "runny_nose"
	Congestion          ID = "congestion"
	Sneezing            ID = "sneezing"
	MuscleAches         ID = "muscle_aches"
	MuscleTension       ID = "muscle_tension"
	Dizziness           ID = "dizziness"
	ChestPain           ID = "chest_pain"
	DifficultyBreathing ID = "difficulty_breathing"
	AbdominalPain       ID = "abdominal_pain"
	SevereAbdominalPain ID = "severe_abdominal_pain"
	Diarrhea            ID = "diarrhea"
	BackPain            ID = "back_pain"
	Anxiety             ID = "anxiety"
	DifficultySleeping  ID = "difficulty_sleeping"
	SensitivityToLight  ID = "sensitivity_to_light"
	Confusion           ID = "confusion"
)

// Entry maps one symptom ID to the free-text phrases that should trigger its
// detection. Phrases are lower-case; detection runs against normalized text.
type Entry struct {
	ID         ID
	Variations []string
}

// entries is the single source of truth for the symptom vocabulary. Order
// matters: detection iterates entries in this order, and downstream iteration
// over a detection preserves first-match order.
var entries = []Entry{
	{Fever, []string{"fever", "feverish", "high temperature", "burning up", "running a temperature"}},
	{MildFever, []string{"mild fever", "slight fever", "low grade fever", "low-grade fever"}},
	{Headache, []string{"headache", "head ache", "head pain", "migraine", "head hurts", "head is pounding"}},
	{SevereHeadache, []string{"severe headache", "worst headache", "splitting headache", "excruciating headache"}},
	{Cough, []string{"cough", "coughing", "hacking"}},
	{Fatigue, []string{"fatigue", "fatigued", "tired", "exhausted", "lethargic", "no energy"}},
	{Nausea, []string{"nausea", "nauseous", "queasy"}},
	{Vomiting, []string{"vomit", "vomiting", "throwing up", "throw up", "threw up"}},
	{PersistentVomiting, []string{"persistent vomiting", "keep vomiting", "can't stop vomiting", "cant stop vomiting", "vomiting for days"}},
	{SoreThroat, []string{"sore throat", "throat pain", "throat hurts", "throat ache", "scratchy throat"}},
	{RunnyNose, []string{"runny nose", "nose is running", "sniffles"}},
	{Congestion, []string{"congestion", "congested", "stuffy nose", "blocked nose"}},
	{Sneezing, []string{"sneezing", "sneeze"}},
	{MuscleAches, []string{"muscle aches", "muscle ache", "muscle pain", "body ache", "body aches", "body pain", "aching all over"}},
	{MuscleTension, []string{"muscle tension", "tense muscles", "stiff muscles"}},
	{Dizziness, []string{"dizziness", "dizzy", "lightheaded", "lightheadedness", "vertigo", "room is spinning"}},
	{ChestPain, []string{"chest pain", "chest ache", "chest discomfort", "pain in chest", "chest hurts", "rib pain", "left chest pain", "right chest pain"}},
	{DifficultyBreathing, []string{"difficulty breathing", "breathing problems", "shortness of breath", "breathless", "can't breathe", "cant breathe", "hard to breathe", "wheezing", "tight chest"}},
	{AbdominalPain, []string{"abdominal pain", "stomach pain", "stomach ache", "stomachache", "belly pain", "tummy pain", "stomach hurts"}},
	{SevereAbdominalPain, []string{"severe abdominal pain", "severe stomach pain", "intense abdominal pain", "unbearable stomach pain"}},
	{Diarrhea, []string{"diarrhea", "diarrhoea", "loose stools", "watery stools"}},
	{BackPain, []string{"back pain", "back ache", "backache", "lower back hurts", "my back hurts"}},
	{Anxiety, []string{"anxiety", "anxious", "panic attack", "panicking"}},
	{DifficultySleeping, []string{"can't sleep", "cant sleep", "insomnia", "trouble sleeping", "difficulty sleeping"}},
	{SensitivityToLight, []string{"sensitivity to light", "light sensitivity", "light hurts my eyes", "photophobia"}},
	{Confusion, []string{"confusion", "confused", "disoriented"}},
}

// Lexicon is the immutable symptom vocabulary, loaded once at process start
// and shared by every request handler without synchronization.
type Lexicon struct {
	entries []Entry
	byID    map[ID]int
}

// NewLexicon builds the lexicon from the declared entries.
func NewLexicon() *Lexicon {
	l := &Lexicon{
		entries: entries,
		byID:    make(map[ID]int, len(entries)),
	}
	for i, e := range l.entries {
		l.byID[e.ID] = i
	}
	return l
}

// Entries returns the vocabulary in declaration order.
func (l *Lexicon) Entries() []Entry {
	return l.entries
}

// Contains reports whether id is part of the vocabulary.
func (l *Lexicon) Contains(id ID) bool {
	_, ok := l.byID[id]
	return ok
}

// Canonical resolves a raw token ("sore throat", "sore_throat", "Fever") to
// its canonical ID. Used by the structured form flow, where the client sends
// symptom tokens rather than free text.
func (l *Lexicon) Canonical(token string) (ID, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return "", false
	}
	underscored := ID(strings.ReplaceAll(t, " ", "_"))
	if l.Contains(underscored) {
		return underscored, true
	}
	spaced := strings.ReplaceAll(t, "_", " ")
	for _, e := range l.entries {
		for _, v := range e.Variations {
			if v == spaced {
				return e.ID, true
			}
		}
	}
	return "", false
}

// Display returns the human-readable form of an ID ("chest pain").
func Display(id ID) string {
	return strings.ReplaceAll(string(id), "_", " ")
}
