// Package history keeps the per-session, per-title conversation turns that are
// replayed into follow-up prompts.
package history

import (
	"sync"

	"scriptqa/internal/scripts"
)

// DefaultMaxTurns is the bound applied when NewStore receives a non-positive value.
const DefaultMaxTurns = 10

// Turn is one answered question.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type key struct {
	session string
	title   string
}

// Store holds bounded conversation histories in memory. The zero value is not
// usable; construct with NewStore.
type Store struct {
	mu       sync.Mutex
	maxTurns int
	turns    map[key][]Turn
}

// NewStore creates a store that keeps at most maxTurns turns per conversation.
func NewStore(maxTurns int) *Store {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Store{maxTurns: maxTurns, turns: make(map[key][]Turn)}
}

func newKey(sessionID, title string) key {
	return key{session: sessionID, title: scripts.CacheKey(title)}
}

// Get returns a copy of the turns for the conversation, oldest first. Absent
// conversations yield an empty slice.
func (s *Store) Get(sessionID, title string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.turns[newKey(sessionID, title)]
	out := make([]Turn, len(existing))
	copy(out, existing)
	return out
}

// Append adds turn and evicts the oldest turns beyond the bound.
func (s *Store) Append(sessionID, title string, turn Turn) {
	k := newKey(sessionID, title)
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.turns[k], turn)
	if overflow := len(turns) - s.maxTurns; overflow > 0 {
		trimmed := make([]Turn, s.maxTurns)
		copy(trimmed, turns[overflow:])
		turns = trimmed
	}
	s.turns[k] = turns
}

// Clear drops the conversation. Clearing an absent conversation is a no-op.
func (s *Store) Clear(sessionID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, newKey(sessionID, title))
}

// MaxTurns reports the per-conversation bound.
func (s *Store) MaxTurns() int {
	return s.maxTurns
}

// Len returns the number of live conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}
