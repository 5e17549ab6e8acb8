package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lucasmr/memoria/pkg/model"
)

// CreateReminder stores a reminder for an existing event. The foreign key
// rejects reminders for events that were never saved.
func (s *Store) CreateReminder(ctx context.Context, r model.Reminder) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO reminders(id, event_id, reminder_time, message, is_sent)
        VALUES(?, ?, ?, ?, 0);
    `, r.ID, r.EventID, r.FireAt.UTC(), r.Message)
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

// DueUnsentReminders returns every reminder whose fire time is at or before
// now and that has not been sent, joined with its owning event.
func (s *Store) DueUnsentReminders(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT r.id, r.event_id, r.reminder_time, r.message, r.is_sent, r.created_at,
               e.title, e.date, e.time
        FROM reminders r
        JOIN events e ON r.event_id = e.id
        WHERE r.is_sent = 0 AND r.reminder_time <= ?;
    `, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	defer rows.Close()

	var out []model.Reminder
	for rows.Next() {
		var r model.Reminder
		var evTime sql.NullString
		if err := rows.Scan(&r.ID, &r.EventID, &r.FireAt, &r.Message, &r.Sent, &r.CreatedAt,
			&r.EventTitle, &r.EventDate, &evTime); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		r.EventTime = evTime.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkReminderSent flips the sent flag for one reminder. The transition never
// reverts.
func (s *Store) MarkReminderSent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE reminders SET is_sent = 1 WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}
