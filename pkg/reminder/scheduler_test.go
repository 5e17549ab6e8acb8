package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmr/memoria/pkg/model"
)

// fakeStore keeps reminders in memory, shared between the poller and the test.
type fakeStore struct {
	mu        sync.Mutex
	reminders []model.Reminder
	scanErr   error
}

func (f *fakeStore) DueUnsentReminders(_ context.Context, now time.Time) ([]model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	var due []model.Reminder
	for _, r := range f.reminders {
		if !r.Sent && !r.FireAt.After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (f *fakeStore) MarkReminderSent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reminders {
		if f.reminders[i].ID == id {
			f.reminders[i].Sent = true
		}
	}
	return nil
}

func (f *fakeStore) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.reminders {
		if r.Sent {
			n++
		}
	}
	return n
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []model.Notification
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, n model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, n)
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func dueReminder(id string) model.Reminder {
	return model.Reminder{
		ID:         id,
		EventID:    "ev-" + id,
		FireAt:     time.Now().Add(-time.Minute),
		Message:    "Lembrete: evento " + id,
		EventTitle: "Evento " + id,
		EventDate:  "15/01/2025",
	}
}

func TestPollExactlyOnce(t *testing.T) {
	store := &fakeStore{reminders: []model.Reminder{
		dueReminder("a"), dueReminder("b"), dueReminder("c"),
	}}
	notifier := &fakeNotifier{}
	s := NewScheduler(store, notifier, time.Minute, nil)

	s.Poll(context.Background())
	assert.Equal(t, 3, notifier.callCount())
	assert.Equal(t, 3, store.sentCount())

	// A second immediate poll notifies nothing further.
	s.Poll(context.Background())
	assert.Equal(t, 3, notifier.callCount())
}

func TestPollFutureRemindersStayUnsent(t *testing.T) {
	future := dueReminder("later")
	future.FireAt = time.Now().Add(time.Hour)
	store := &fakeStore{reminders: []model.Reminder{future}}
	notifier := &fakeNotifier{}
	s := NewScheduler(store, notifier, time.Minute, nil)

	s.Poll(context.Background())
	assert.Zero(t, notifier.callCount())
	assert.Zero(t, store.sentCount())
}

func TestPollMarksSentEvenWhenNotifyFails(t *testing.T) {
	store := &fakeStore{reminders: []model.Reminder{dueReminder("a")}}
	notifier := &fakeNotifier{err: errors.New("no desktop session")}
	s := NewScheduler(store, notifier, time.Minute, nil)

	s.Poll(context.Background())
	assert.Equal(t, 1, store.sentCount(), "delivery is best-effort, the reminder is still consumed")
}

func TestPollRecoversFromScanFailure(t *testing.T) {
	store := &fakeStore{scanErr: errors.New("db locked")}
	notifier := &fakeNotifier{}
	s := NewScheduler(store, notifier, time.Minute, nil)

	s.Poll(context.Background())

	store.mu.Lock()
	store.scanErr = nil
	store.reminders = []model.Reminder{dueReminder("a")}
	store.mu.Unlock()

	s.Poll(context.Background())
	assert.Equal(t, 1, notifier.callCount())
}

func TestStartStopIdempotent(t *testing.T) {
	store := &fakeStore{reminders: []model.Reminder{dueReminder("a")}}
	notifier := &fakeNotifier{}
	s := NewScheduler(store, notifier, time.Hour, nil)

	s.Start()
	s.Start() // no second poller

	// The immediate startup poll runs once even though Start was called twice.
	require.Eventually(t, func() bool { return notifier.callCount() == 1 },
		time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop() // no-op

	// No notification fires after Stop returned.
	before := notifier.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, notifier.callCount())
}

func TestStopWaitsForInflightIteration(t *testing.T) {
	store := &fakeStore{reminders: []model.Reminder{dueReminder("a")}}
	notifier := &fakeNotifier{}
	s := NewScheduler(store, notifier, 10*time.Millisecond, nil)

	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop() // must join, not leak the goroutine

	assert.GreaterOrEqual(t, notifier.callCount(), 1)
}
