package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lucasmr/memoria/pkg/model"
)

const dateLayout = "02/01/2006"

// SaveEvents persists all events of one day inside a single transaction and
// returns them with IDs assigned.
func (s *Store) SaveEvents(ctx context.Context, de model.DailyEvents) ([]model.Event, error) {
	day, err := time.Parse(dateLayout, de.Date)
	if err != nil {
		return nil, fmt.Errorf("parse event date %q: %w", de.Date, err)
	}
	dateISO := day.Format("2006-01-02")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	saved := make([]model.Event, 0, len(de.Events))
	for _, ev := range de.Events {
		ev.ID = uuid.NewString()
		ev.Date = de.Date
		_, err := tx.ExecContext(ctx, `
            INSERT INTO events(id, date, date_iso, title, description, category, priority, time, location, reminder)
            VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
        `, ev.ID, ev.Date, dateISO, ev.Title, ev.Description, string(ev.Category), string(ev.Priority),
			nullable(ev.Time), nullable(ev.Location), nullable(ev.Reminder))
		if err != nil {
			return nil, fmt.Errorf("insert event %q: %w", ev.Title, err)
		}
		saved = append(saved, ev)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit events: %w", err)
	}
	return saved, nil
}

// GetEventsByDate returns the day's events in time-ascending order; events
// without a time sort first.
func (s *Store) GetEventsByDate(ctx context.Context, date string) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, date, title, description, category, priority, time, location, reminder
        FROM events
        WHERE date = ?
        ORDER BY time ASC;
    `, date)
	if err != nil {
		return nil, fmt.Errorf("query events by date: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetMemoryContext returns events from the last seven days plus the twenty
// most recent interactions.
func (s *Store) GetMemoryContext(ctx context.Context) (*model.MemoryContext, error) {
	cutoff := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, date, title, description, category, priority, time, location, reminder
        FROM events
        WHERE date_iso >= ?
        ORDER BY date_iso DESC, time ASC;
    `, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	interactions, err := s.GetRecentInteractions(ctx, 20)
	if err != nil {
		return nil, err
	}

	return &model.MemoryContext{RecentEvents: events, RecentInteractions: interactions}, nil
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var category, priority string
		var evTime, location, reminder sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Date, &ev.Title, &ev.Description, &category, &priority,
			&evTime, &location, &reminder); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Category = model.Category(category)
		ev.Priority = model.Priority(priority)
		ev.Time = evTime.String
		ev.Location = location.String
		ev.Reminder = reminder.String
		out = append(out, ev)
	}
	return out, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
