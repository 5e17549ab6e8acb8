package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmr/memoria/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveEventsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveEvents(ctx, model.DailyEvents{
		Date: "15/01/2025",
		Events: []model.Event{
			{Title: "Reunião", Description: "Reunião de equipe", Category: model.CategoryTrabalho, Priority: model.PriorityAlta, Time: "15:00"},
			{Title: "Consulta", Description: "Dentista", Category: model.CategorySaude, Priority: model.PriorityMedia, Time: "09:00", Location: "Clínica"},
			{Title: "Anotação", Description: "Sem horário", Category: model.CategoryOutros, Priority: model.PriorityBaixa},
		},
	})
	require.NoError(t, err)
	require.Len(t, saved, 3)
	for _, ev := range saved {
		assert.NotEmpty(t, ev.ID)
	}

	got, err := s.GetEventsByDate(ctx, "15/01/2025")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Time-ascending, untimed events first.
	assert.Equal(t, "Anotação", got[0].Title)
	assert.Equal(t, "Consulta", got[1].Title)
	assert.Equal(t, "Reunião", got[2].Title)

	assert.Equal(t, model.CategorySaude, got[1].Category)
	assert.Equal(t, model.PriorityMedia, got[1].Priority)
	assert.Equal(t, "Dentista", got[1].Description)
	assert.Equal(t, "Clínica", got[1].Location)

	other, err := s.GetEventsByDate(ctx, "16/01/2025")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSaveEventsRejectsBadDate(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SaveEvents(context.Background(), model.DailyEvents{
		Date:   "2025-01-15",
		Events: []model.Event{{Title: "x", Description: "y"}},
	})
	require.Error(t, err)
}

func TestInteractions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	for i, msg := range []string{"primeira", "segunda", "terceira"} {
		require.NoError(t, s.SaveInteraction(ctx, model.Interaction{
			HumanMessage:     msg,
			AssistantMessage: "ok " + msg,
			Timestamp:        base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.GetRecentInteractions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "terceira", got[0].HumanMessage, "newest first")
	assert.Equal(t, "segunda", got[1].HumanMessage)
}

func TestMemoryContextWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recent := time.Now().AddDate(0, 0, -1).Format("02/01/2006")
	old := time.Now().AddDate(0, 0, -30).Format("02/01/2006")

	_, err := s.SaveEvents(ctx, model.DailyEvents{Date: recent, Events: []model.Event{
		{Title: "Recente", Description: "d", Category: model.CategoryOutros, Priority: model.PriorityMedia},
	}})
	require.NoError(t, err)
	_, err = s.SaveEvents(ctx, model.DailyEvents{Date: old, Events: []model.Event{
		{Title: "Antigo", Description: "d", Category: model.CategoryOutros, Priority: model.PriorityMedia},
	}})
	require.NoError(t, err)

	require.NoError(t, s.SaveInteraction(ctx, model.Interaction{HumanMessage: "oi", AssistantMessage: "olá"}))

	mc, err := s.GetMemoryContext(ctx)
	require.NoError(t, err)
	require.Len(t, mc.RecentEvents, 1, "only the last seven days")
	assert.Equal(t, "Recente", mc.RecentEvents[0].Title)
	assert.Len(t, mc.RecentInteractions, 1)
}

func TestReminderLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveEvents(ctx, model.DailyEvents{Date: "15/01/2025", Events: []model.Event{
		{Title: "Reunião", Description: "d", Category: model.CategoryTrabalho, Priority: model.PriorityMedia, Time: "14:00", Reminder: "1h antes"},
	}})
	require.NoError(t, err)

	fireAt := time.Now().Add(-time.Minute)
	require.NoError(t, s.CreateReminder(ctx, model.Reminder{
		ID:      "rem-1",
		EventID: saved[0].ID,
		FireAt:  fireAt,
		Message: "Lembrete: Reunião",
	}))

	due, err := s.DueUnsentReminders(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, due, 1)
	r := due[0]
	assert.Equal(t, "rem-1", r.ID)
	assert.Equal(t, saved[0].ID, r.EventID)
	assert.Equal(t, "Reunião", r.EventTitle)
	assert.Equal(t, "15/01/2025", r.EventDate)
	assert.Equal(t, "14:00", r.EventTime)
	assert.False(t, r.Sent)

	require.NoError(t, s.MarkReminderSent(ctx, "rem-1"))

	due, err = s.DueUnsentReminders(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, due, "sent reminders never come back")
}

func TestReminderNotYetDue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveEvents(ctx, model.DailyEvents{Date: "15/01/2025", Events: []model.Event{
		{Title: "Futuro", Description: "d", Category: model.CategoryOutros, Priority: model.PriorityMedia},
	}})
	require.NoError(t, err)

	require.NoError(t, s.CreateReminder(ctx, model.Reminder{
		EventID: saved[0].ID,
		FireAt:  time.Now().Add(time.Hour),
		Message: "ainda não",
	}))

	due, err := s.DueUnsentReminders(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestReminderRequiresEvent(t *testing.T) {
	s := newTestStore(t)
	err := s.CreateReminder(context.Background(), model.Reminder{
		EventID: "no-such-event",
		FireAt:  time.Now(),
		Message: "órfão",
	})
	require.Error(t, err, "foreign key rejects orphaned reminders")
}

func TestIdentities(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	missing, err := s.GetIdentity(ctx, "Carla")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.UpsertIdentity(ctx, model.Identity{Name: "Carla", Relationship: "amiga"}))
	require.NoError(t, s.UpsertIdentity(ctx, model.Identity{Name: "Pedro", Role: "médico"}))

	got, err := s.GetIdentity(ctx, "Carla")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "amiga", got.Relationship)

	// Upsert on the same name refreshes metadata instead of duplicating.
	require.NoError(t, s.UpsertIdentity(ctx, model.Identity{Name: "Carla", Relationship: "colega", Notes: "trabalha junto"}))

	all, err := s.ListIdentities(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Carla", all[0].Name, "ordered by name")
	assert.Equal(t, "colega", all[0].Relationship)
	assert.Equal(t, "trabalha junto", all[0].Notes)
}
