package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrohwah/shadowsofavernus/internal/game/character"
	"github.com/pedrohwah/shadowsofavernus/internal/storage"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = storage.ErrCharacterNotFound

// ErrCharacterNameTaken is returned when creating a character with a name that is already in use.
var ErrCharacterNameTaken = storage.ErrCharacterNameTaken

const characterColumns = `id, name, player, ancestry, class, level,
	       strength, dexterity, constitution, intelligence, wisdom, charisma,
	       luck, max_hp, current_hp, armor_id, shield, carried_weight,
	       created_at, updated_at`

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	err := row.Scan(
		&c.ID, &c.Name, &c.Player, &c.Ancestry, &c.Class, &c.Level,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.Luck, &c.MaxHP, &c.CurrentHP, &c.ArmorID, &c.Shield, &c.CarriedWeight,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c must pass character.Validate.
// Postcondition: Returns the created character with ID set, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		INSERT INTO characters
			(name, player, ancestry, class, level,
			 strength, dexterity, constitution, intelligence, wisdom, charisma,
			 luck, max_hp, current_hp, armor_id, shield, carried_weight)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING `+characterColumns,
		c.Name, c.Player, c.Ancestry, c.Class, c.Level,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.Luck, c.MaxHP, c.CurrentHP, c.ArmorID, c.Shield, c.CarriedWeight,
	))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// List returns all characters ordered by creation time.
//
/// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+characterColumns+` FROM characters ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// Update persists all mutable fields of an existing character.
//
// Precondition: c.ID must be > 0 and c must pass character.Validate.
// Postcondition: Returns the updated character, ErrCharacterNotFound if no
// row matched, or ErrCharacterNameTaken on a name collision.
func (r *CharacterRepository) Update(ctx context.Context, c *character.Character) (*character.Character, error) {
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		UPDATE characters SET
			name = $2, player = $3, ancestry = $4, class = $5, level = $6,
			strength = $7, dexterity = $8, constitution = $9,
			intelligence = $10, wisdom = $11, charisma = $12,
			luck = $13, max_hp = $14, current_hp = $15,
			armor_id = $16, shield = $17, carried_weight = $18,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+characterColumns,
		c.ID, c.Name, c.Player, c.Ancestry, c.Class, c.Level,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.Luck, c.MaxHP, c.CurrentHP, c.ArmorID, c.Shield, c.CarriedWeight,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("updating character: %w", err)
	}
	return out, nil
}

// SaveVitals persists a character's hit points and carried weight after play.
//
// Precondition: id must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveVitals(ctx context.Context, id int64, currentHP int, carriedWeight float64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET current_hp = $2, carried_weight = $3, updated_at = NOW()
		WHERE id = $1`,
		id, currentHP, carriedWeight,
	)
	if err != nil {
		return fmt.Errorf("saving character vitals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character by ID.
//
// Postcondition: Returns nil on success or ErrCharacterNotFound.
func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}
