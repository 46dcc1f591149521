package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager tracks all live sessions, their rosters, and their roll logs.
// All methods are safe for concurrent use.
type Manager struct {
	mu           sync.RWMutex
	historyLimit int
	sessions     map[string]*Session
	rosters      map[string]map[string]*Player // session ID → player name → player
	logs         map[string]*RollLog
}

// NewManager creates an empty Manager whose per-session roll logs keep
// historyLimit records; non-positive selects DefaultHistoryLimit.
func NewManager(historyLimit int) *Manager {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Manager{
		historyLimit: historyLimit,
		sessions:     make(map[string]*Session),
		rosters:      make(map[string]map[string]*Player),
		logs:         make(map[string]*RollLog),
	}
}

// Create opens a new session. A non-empty passphrase protects joining.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the created Session with a fresh UUID, or an
// error.
func (m *Manager) Create(name, gmName, passphrase string) (*Session, error) {
	if name == "" {
		return nil, errors.New("session name must not be empty")
	}

	sess := &Session{
		ID:        uuid.New().String(),
		Name:      name,
		GMName:    gmName,
		CreatedAt: time.Now(),
	}
	if passphrase != "" {
		hash, err := HashPassphrase(passphrase)
		if err != nil {
			return nil, fmt.Errorf("hashing passphrase: %w", err)
		}
		sess.PassphraseHash = hash
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.adoptLocked(sess)
	return sess, nil
}

// Adopt registers an already-persisted session (for example one reloaded
// from storage after a restart). Adopting an ID that is already live is
// a no-op.
//
// Precondition: sess must be non-nil with a non-empty ID.
func (m *Manager) Adopt(sess *Session) {
	if sess == nil || sess.ID == "" {
		panic("session: Adopt requires a session with an ID")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, live := m.sessions[sess.ID]; live {
		return
	}
	m.adoptLocked(sess)
}

func (m *Manager) adoptLocked(sess *Session) {
	m.sessions[sess.ID] = sess
	m.rosters[sess.ID] = make(map[string]*Player)
	m.logs[sess.ID] = NewRollLog(m.historyLimit)
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Join adds a player to the session roster. Joining a protected session
// requires the matching passphrase; a duplicate player name is rejected.
//
// Precondition: playerName must be non-empty.
// Postcondition: Returns the roster entry or one of ErrSessionNotFound,
// ErrBadPassphrase, ErrPlayerExists.
func (m *Manager) Join(id, playerName, passphrase string, characterID int64) (*Player, error) {
	if playerName == "" {
		return nil, errors.New("player name must not be empty")
	}

	// The bcrypt compare is slow, so check it outside the write lock.
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if sess.Protected() {
		if err := CheckPassphrase(sess.PassphraseHash, passphrase); err != nil {
			return nil, ErrBadPassphrase
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	roster, ok := m.rosters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if _, dup := roster[playerName]; dup {
		return nil, fmt.Errorf("%w: %s", ErrPlayerExists, playerName)
	}

	p := &Player{Name: playerName, CharacterID: characterID, JoinedAt: time.Now()}
	roster[playerName] = p
	return p, nil
}

// Leave removes a player from the session roster.
//
// Postcondition: Returns nil, ErrSessionNotFound, or ErrPlayerNotFound.
func (m *Manager) Leave(id, playerName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	roster, ok := m.rosters[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if _, ok := roster[playerName]; !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerName)
	}
	delete(roster, playerName)
	return nil
}

// Players returns the session roster in join order.
func (m *Manager) Players(id string) ([]*Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roster, ok := m.rosters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	out := make([]*Player, 0, len(roster))
	for _, p := range roster {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// AppendRoll records rec on the session's roll log.
func (m *Manager) AppendRoll(id string, rec RollRecord) error {
	m.mu.RLock()
	log, ok := m.logs[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	log.Append(rec)
	return nil
}

// Rolls returns the session's retained roll history, newest first.
func (m *Manager) Rolls(id string) ([]RollRecord, error) {
	m.mu.RLock()
	log, ok := m.logs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return log.Recent(), nil
}

// SeedRolls rehydrates the session's roll log from storage, oldest
// record first.
func (m *Manager) SeedRolls(id string, recs []RollRecord) error {
	m.mu.RLock()
	log, ok := m.logs[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	log.Seed(recs)
	return nil
}

// Close removes a session together with its roster and roll log.
//
// Postcondition: Returns ErrSessionNotFound if the ID is unknown.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	delete(m.rosters, id)
	delete(m.logs, id)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
