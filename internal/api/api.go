// Package api exposes the companion over HTTP and websocket: dice
// evaluation, character sheets, live sessions with a broadcast roll
// feed, and health checks. Handlers declare the narrow store interfaces
// they consume; both storage drivers satisfy them.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pedrohwah/shadowsofavernus/internal/config"
	"github.com/pedrohwah/shadowsofavernus/internal/game/character"
	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/ruleset"
	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
)

// DiceRoller evaluates roll requests. Both the plain and the logged
// roller satisfy it.
type DiceRoller interface {
	Roll(req dice.Request) (dice.Result, error)
}

// CharacterStore persists character sheets.
type CharacterStore interface {
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	GetByID(ctx context.Context, id int64) (*character.Character, error)
	List(ctx context.Context) ([]*character.Character, error)
	Update(ctx context.Context, c *character.Character) (*character.Character, error)
	Delete(ctx context.Context, id int64) error
}

// SessionStore persists sessions so they survive a restart.
type SessionStore interface {
	Create(ctx context.Context, s *session.Session) error
	GetByID(ctx context.Context, id string) (*session.Session, error)
}

// RollStore persists the per-session roll history.
type RollStore interface {
	Insert(ctx context.Context, rec session.RollRecord) error
	ListRecent(ctx context.Context, sessionID string, limit int) ([]session.RollRecord, error)
	Prune(ctx context.Context, sessionID string, keep int) (int64, error)
}

// HealthChecker reports storage reachability for the health endpoint.
type HealthChecker interface {
	Health(ctx context.Context, timeout time.Duration) error
}

// Handler carries the companion's HTTP handlers and their dependencies.
type Handler struct {
	cfg          config.HTTPConfig
	roller       DiceRoller
	registry     *ruleset.Registry
	manager      *session.Manager
	feed         *session.Feed
	characters   CharacterStore
	sessions     SessionStore
	rolls        RollStore
	health       HealthChecker
	historyLimit int
	logger       *zap.Logger
	upgrader     websocket.Upgrader
}

// NewHandler wires the handler set.
//
// Precondition: every dependency except health must be non-nil; a nil
// health reports the storage as unchecked rather than failing.
// Postcondition: Returns a Handler whose Router serves the full API.
func NewHandler(
	cfg config.HTTPConfig,
	roller DiceRoller,
	registry *ruleset.Registry,
	manager *session.Manager,
	feed *session.Feed,
	characters CharacterStore,
	sessions SessionStore,
	rolls RollStore,
	health HealthChecker,
	historyLimit int,
	logger *zap.Logger,
) *Handler {
	if historyLimit <= 0 {
		historyLimit = session.DefaultHistoryLimit
	}
	return &Handler{
		cfg:          cfg,
		roller:       roller,
		registry:     registry,
		manager:      manager,
		feed:         feed,
		characters:   characters,
		sessions:     sessions,
		rolls:        rolls,
		health:       health,
		historyLimit: historyLimit,
		logger:       logger,
		// Browser clients connect from arbitrary dev origins; deployments
		// that pin origins install a stricter check via SetCheckOrigin.
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// SetCheckOrigin replaces the websocket origin check.
func (h *Handler) SetCheckOrigin(check func(*http.Request) bool) {
	h.upgrader.CheckOrigin = check
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/roll", h.handleRoll).Methods(http.MethodPost)
	api.HandleFunc("/roll/validate", h.handleValidateRoll).Methods(http.MethodPost)
	api.HandleFunc("/roll/suggest", h.handleSuggestRolls).Methods(http.MethodGet)
	api.HandleFunc("/roll/common", h.handleCommonRolls).Methods(http.MethodGet)

	api.HandleFunc("/characters", h.handleCreateCharacter).Methods(http.MethodPost)
	api.HandleFunc("/characters", h.handleListCharacters).Methods(http.MethodGet)
	api.HandleFunc("/characters/{id}", h.handleGetCharacter).Methods(http.MethodGet)
	api.HandleFunc("/characters/{id}", h.handleUpdateCharacter).Methods(http.MethodPut)
	api.HandleFunc("/characters/{id}", h.handleDeleteCharacter).Methods(http.MethodDelete)

	api.HandleFunc("/sessions", h.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/join", h.handleJoinSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/leave", h.handleLeaveSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/rolls", h.handleSessionRoll).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/rolls", h.handleSessionRolls).Methods(http.MethodGet)

	api.HandleFunc("/healthz", h.handleHealthz).Methods(http.MethodGet)

	r.HandleFunc("/ws/sessions/{id}", h.handleSessionFeed).Methods(http.MethodGet)
	return r
}
