package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lucasmr/memoria/pkg/model"
)

// GetIdentity looks up one person by name. Returns (nil, nil) when unknown.
func (s *Store) GetIdentity(ctx context.Context, name string) (*model.Identity, error) {
	var id model.Identity
	var role, relationship, preferences, notes sql.NullString
	err := s.db.QueryRowContext(ctx, `
        SELECT id, name, role, relationship, preferences, notes, created_at, updated_at
        FROM identities
        WHERE name = ?;
    `, name).Scan(&id.ID, &id.Name, &role, &relationship, &preferences, &notes, &id.CreatedAt, &id.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query identity: %w", err)
	}
	id.Role = role.String
	id.Relationship = relationship.String
	id.Preferences = preferences.String
	id.Notes = notes.String
	return &id, nil
}

// UpsertIdentity inserts a person or refreshes the metadata of an existing
// one, keyed by name.
func (s *Store) UpsertIdentity(ctx context.Context, id model.Identity) error {
	if id.ID == "" {
		id.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO identities(id, name, role, relationship, preferences, notes)
        VALUES(?, ?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            role = excluded.role,
            relationship = excluded.relationship,
            preferences = excluded.preferences,
            notes = excluded.notes,
            updated_at = CURRENT_TIMESTAMP;
    `, id.ID, id.Name, nullable(id.Role), nullable(id.Relationship), nullable(id.Preferences), nullable(id.Notes))
	if err != nil {
		return fmt.Errorf("upsert identity: %w", err)
	}
	return nil
}

// ListIdentities returns all known people ordered by name.
func (s *Store) ListIdentities(ctx context.Context) ([]model.Identity, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, role, relationship, preferences, notes, created_at, updated_at
        FROM identities
        ORDER BY name;
    `)
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	var out []model.Identity
	for rows.Next() {
		var id model.Identity
		var role, relationship, preferences, notes sql.NullString
		if err := rows.Scan(&id.ID, &id.Name, &role, &relationship, &preferences, &notes, &id.CreatedAt, &id.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		id.Role = role.String
		id.Relationship = relationship.String
		id.Preferences = preferences.String
		id.Notes = notes.String
		out = append(out, id)
	}
	return out, rows.Err()
}
