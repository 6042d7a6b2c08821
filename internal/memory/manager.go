package memory

import (
	"sync"
	"time"

	"github.com/Dionlucil/health-assistant/internal/doctor"
)

// sessionBuffer holds the recent turns of one chat session.
type sessionBuffer struct {
	turns    []doctor.Turn
	lastUsed time.Time
	mu       sync.RWMutex
}

// Manager keeps per-session conversation buffers so the chat flow can feed
// prior turns back into the response composer. Buffers are bounded and
// evicted after a period of inactivity.
type Manager struct {
	sessions map[string]*sessionBuffer
	maxTurns int
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewManager creates a session memory manager keeping up to maxTurns turns
// per session.
func NewManager(maxTurns int, ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*sessionBuffer),
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

// AddTurn appends a turn to the session's buffer, trimming the oldest turns
// past the size limit.
func (m *Manager) AddTurn(sessionID string, turn doctor.Turn) {
	m.mu.Lock()
	buf, exists := m.sessions[sessionID]
	if !exists {
		buf = &sessionBuffer{turns: make([]doctor.Turn, 0, m.maxTurns)}
		m.sessions[sessionID] = buf
	}
	m.mu.Unlock()

	buf.mu.Lock()
	defer buf.mu.Unlock()

	buf.turns = append(buf.turns, turn)
	if len(buf.turns) > m.maxTurns {
		buf.turns = buf.turns[len(buf.turns)-m.maxTurns:]
	}
	buf.lastUsed = time.Now()
}

// History returns a copy of the session's turns in order.
func (m *Manager) History(sessionID string) []doctor.Turn {
	m.mu.RLock()
	buf, exists := m.sessions[sessionID]
	m.mu.RUnlock()
	if !exists {
		return nil
	}

	buf.mu.RLock()
	defer buf.mu.RUnlock()

	history := make([]doctor.Turn, len(buf.turns))
	copy(history, buf.turns)
	return history
}

// Clear drops the session's buffer.
func (m *Manager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Sweep evicts sessions idle past the TTL. Intended to run periodically
// from a background goroutine.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.ttl)
	evicted := 0
	for id, buf := range m.sessions {
		buf.mu.RLock()
		stale := buf.lastUsed.Before(cutoff)
		buf.mu.RUnlock()
		if stale {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}
