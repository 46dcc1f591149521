package session

import (
	"sync"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
)

// DefaultHistoryLimit caps how many rolls a session keeps.
const DefaultHistoryLimit = 100

// RollRecord is one entry in a session's roll history.
type RollRecord struct {
	ID            string      `json:"id"`
	SessionID     string      `json:"session_id"`
	PlayerName    string      `json:"player_name"`
	CharacterName string      `json:"character_name,omitempty"`
	Result        dice.Result `json:"result"`
}

// RollLog is an append-only roll history that retains only the most
// recent entries; older rolls fall off the front. Safe for concurrent
// use.
type RollLog struct {
	mu    sync.RWMutex
	limit int
	recs  []RollRecord
}

// NewRollLog creates a RollLog keeping at most limit records; a
// non-positive limit selects DefaultHistoryLimit.
func NewRollLog(limit int) *RollLog {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &RollLog{limit: limit}
}

// Append adds rec, evicting the oldest record once the cap is reached.
//
// Postcondition: Len() <= the log's limit.
func (l *RollLog) Append(rec RollRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.recs = append(l.recs, rec)
	if len(l.recs) > l.limit {
		copy(l.recs, l.recs[1:])
		l.recs = l.recs[:l.limit]
	}
}

// Recent returns a copy of the retained records, newest first.
func (l *RollLog) Recent() []RollRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]RollRecord, len(l.recs))
	for i, rec := range l.recs {
		out[len(l.recs)-1-i] = rec
	}
	return out
}

// Len returns the number of retained records.
func (l *RollLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.recs)
}

// Seed replaces the log contents with recs given oldest first, trimming
// to the cap. Used to rehydrate a session's history from storage.
func (l *RollLog) Seed(recs []RollRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(recs) > l.limit {
		recs = recs[len(recs)-l.limit:]
	}
	l.recs = append(l.recs[:0:0], recs...)
}
