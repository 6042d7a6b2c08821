package catalog

import (
	"testing"

	"github.com/Dionlucil/health-assistant/internal/symptoms"
)

func TestNew_ValidatesAgainstLexicon(t *testing.T) {
	lex := symptoms.NewLexicon()

	cat, err := New(lex)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Every referenced symptom must resolve; this is the load-time
	// round-trip guarantee the constructor enforces.
	for _, cond := range cat.Conditions() {
		if len(cond.Symptoms) == 0 {
			t.Errorf("condition %q has no symptoms", cond.ID)
		}
		for _, sym := range cond.Symptoms {
			if !lex.Contains(sym) {
				t.Errorf("condition %q references unknown symptom %q", cond.ID, sym)
			}
		}
		if cond.Name == "" || cond.Description == "" {
			t.Errorf("condition %q missing display data", cond.ID)
		}
		if len(cond.Advice) == 0 {
			t.Errorf("condition %q has no advice", cond.ID)
		}
	}
}

func TestCatalog_Get(t *testing.T) {
	cat, err := New(symptoms.NewLexicon())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cond, ok := cat.Get("influenza")
	if !ok {
		t.Fatal("Get(influenza) not found")
	}
	if cond.Name != "Influenza (Flu)" {
		t.Errorf("Name = %q", cond.Name)
	}
	if len(cond.Symptoms) != 6 {
		t.Errorf("influenza has %d symptoms, want 6", len(cond.Symptoms))
	}

	if _, ok := cat.Get("nonexistent"); ok {
		t.Error("Get(nonexistent) should not be found")
	}
}

func TestCatalog_Unknown(t *testing.T) {
	cat, err := New(symptoms.NewLexicon())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	unknown := cat.Unknown()
	if unknown.ID != "general_concern" {
		t.Errorf("Unknown().ID = %q", unknown.ID)
	}
	if len(unknown.Advice) == 0 {
		t.Error("Unknown() has no advice")
	}
}
