package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/Dionlucil/health-assistant/internal/doctor"
)

func TestManager_AddTurn(t *testing.T) {
	manager := NewManager(5, time.Hour)

	manager.AddTurn("session-1", doctor.Turn{Role: "user", Text: "I have a headache"})

	history := manager.History("session-1")
	if len(history) != 1 {
		t.Fatalf("Expected 1 turn, got %d", len(history))
	}
	if history[0].Text != "I have a headache" {
		t.Errorf("Expected text %q, got %q", "I have a headache", history[0].Text)
	}
}

func TestManager_TurnLimit(t *testing.T) {
	manager := NewManager(3, time.Hour)

	for i := 1; i <= 5; i++ {
		manager.AddTurn("session-1", doctor.Turn{Role: "user", Text: fmt.Sprintf("message %d", i)})
	}

	history := manager.History("session-1")
	if len(history) != 3 {
		t.Fatalf("Expected 3 turns after trimming, got %d", len(history))
	}
	if history[0].Text != "message 3" {
		t.Errorf("Expected oldest kept turn %q, got %q", "message 3", history[0].Text)
	}
	if history[2].Text != "message 5" {
		t.Errorf("Expected newest turn %q, got %q", "message 5", history[2].Text)
	}
}

func TestManager_SessionsIsolated(t *testing.T) {
	manager := NewManager(5, time.Hour)

	manager.AddTurn("session-1", doctor.Turn{Role: "user", Text: "fever"})
	manager.AddTurn("session-2", doctor.Turn{Role: "user", Text: "cough"})

	if got := manager.History("session-1"); len(got) != 1 || got[0].Text != "fever" {
		t.Errorf("session-1 history = %v", got)
	}
	if got := manager.History("session-2"); len(got) != 1 || got[0].Text != "cough" {
		t.Errorf("session-2 history = %v", got)
	}
	if got := manager.History("session-3"); len(got) != 0 {
		t.Errorf("unknown session history = %v", got)
	}
}

func TestManager_Clear(t *testing.T) {
	manager := NewManager(5, time.Hour)

	manager.AddTurn("session-1", doctor.Turn{Role: "user", Text: "hello"})
	manager.Clear("session-1")

	if got := manager.History("session-1"); len(got) != 0 {
		t.Errorf("history after Clear = %v", got)
	}
}

func TestManager_Sweep(t *testing.T) {
	manager := NewManager(5, time.Millisecond)

	manager.AddTurn("stale", doctor.Turn{Role: "user", Text: "old"})
	time.Sleep(5 * time.Millisecond)

	if evicted := manager.Sweep(); evicted != 1 {
		t.Errorf("Sweep() = %d, want 1", evicted)
	}
	if got := manager.History("stale"); len(got) != 0 {
		t.Errorf("history after sweep = %v", got)
	}
}

func TestManager_HistoryReturnsCopy(t *testing.T) {
	manager := NewManager(5, time.Hour)

	manager.AddTurn("session-1", doctor.Turn{Role: "user", Text: "original"})

	history := manager.History("session-1")
	history[0].Text = "mutated"

	if got := manager.History("session-1"); got[0].Text != "original" {
		t.Error("History() exposed internal buffer to mutation")
	}
}
