package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lucasmr/memoria/pkg/model"
)

// SaveInteraction appends one turn to the interaction log.
func (s *Store) SaveInteraction(ctx context.Context, in model.Interaction) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO interactions(id, timestamp, human_message, assistant_message, context)
        VALUES(?, ?, ?, ?, ?);
    `, in.ID, ts.UTC(), in.HumanMessage, in.AssistantMessage, nullable(in.Context))
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// GetRecentInteractions returns the latest interactions, newest first.
func (s *Store) GetRecentInteractions(ctx context.Context, limit int) ([]model.Interaction, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, timestamp, human_message, assistant_message, context
        FROM interactions
        ORDER BY timestamp DESC
        LIMIT ?;
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []model.Interaction
	for rows.Next() {
		var in model.Interaction
		var contextBlob sql.NullString
		if err := rows.Scan(&in.ID, &in.Timestamp, &in.HumanMessage, &in.AssistantMessage, &contextBlob); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Context = contextBlob.String
		out = append(out, in)
	}
	return out, rows.Err()
}
