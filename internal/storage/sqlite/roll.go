package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
)

// RollRepository persists session roll history. Dice and modifier
// breakdowns are stored as JSON text so the full result survives a restart.
type RollRepository struct {
	db *sql.DB
}

// NewRollRepository creates a RollRepository backed by the given handle.
//
// Precondition: db must be a valid, open database handle.
func NewRollRepository(db *sql.DB) *RollRepository {
	return &RollRepository{db: db}
}

// Insert stores one roll record.
//
// Precondition: rec.SessionID must reference a stored session.
func (r *RollRepository) Insert(ctx context.Context, rec session.RollRecord) error {
	rolls, err := json.Marshal(rec.Result.Rolls)
	if err != nil {
		return fmt.Errorf("encoding rolls: %w", err)
	}
	mods, err := json.Marshal(rec.Result.Modifiers)
	if err != nil {
		return fmt.Errorf("encoding modifiers: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO session_rolls
			(id, session_id, player_name, character_name,
			 expression, rolls, modifiers, total, details, rolled_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.SessionID, rec.PlayerName, rec.CharacterName,
		rec.Result.Expression, string(rolls), string(mods),
		rec.Result.Total, rec.Result.Details, rec.Result.RolledAt.UTC().UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("inserting roll: %w", err)
	}
	return nil
}

// ListRecent returns the newest limit rolls for a session, ordered oldest
// first so the result can seed a live roll log directly.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RollRepository) ListRecent(ctx context.Context, sessionID string, limit int) ([]session.RollRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, player_name, character_name,
		       expression, rolls, modifiers, total, details, rolled_at
		FROM (
			SELECT * FROM session_rolls
			WHERE session_id = ?
			ORDER BY rolled_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY rolled_at ASC, id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rolls: %w", err)
	}
	defer rows.Close()

	recs := make([]session.RollRecord, 0)
	for rows.Next() {
		var rec session.RollRecord
		var rollsJSON, modsJSON string
		var rolledAt int64
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.PlayerName, &rec.CharacterName,
			&rec.Result.Expression, &rollsJSON, &modsJSON,
			&rec.Result.Total, &rec.Result.Details, &rolledAt,
		); err != nil {
			return nil, fmt.Errorf("scanning roll row: %w", err)
		}

		var dies []dice.Die
		if err := json.Unmarshal([]byte(rollsJSON), &dies); err != nil {
			return nil, fmt.Errorf("decoding rolls for %s: %w", rec.ID, err)
		}
		var mods []dice.Modifier
		if err := json.Unmarshal([]byte(modsJSON), &mods); err != nil {
			return nil, fmt.Errorf("decoding modifiers for %s: %w", rec.ID, err)
		}

		rec.Result.Rolls = dies
		rec.Result.Modifiers = mods
		rec.Result.RolledAt = time.UnixMicro(rolledAt).UTC()
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Prune deletes all but the newest keep rolls for a session, mirroring
// the live log's retention cap.
//
// Precondition: keep must be >= 0.
// Postcondition: Returns the number of rows removed.
func (r *RollRepository) Prune(ctx context.Context, sessionID string, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM session_rolls
		WHERE session_id = ? AND id NOT IN (
			SELECT id FROM session_rolls
			WHERE session_id = ?
			ORDER BY rolled_at DESC, id DESC
			LIMIT ?
		)`,
		sessionID, sessionID, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning rolls: %w", err)
	}
	return res.RowsAffected()
}
