package reminder

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lucasmr/memoria/pkg/model"
)

// Store is the slice of the storage collaborator the scheduler needs.
type Store interface {
	DueUnsentReminders(ctx context.Context, now time.Time) ([]model.Reminder, error)
	MarkReminderSent(ctx context.Context, id string) error
}

// Scheduler polls for due, unsent reminders on a fixed interval and raises a
// notification for each, marking it sent immediately afterwards so a reminder
// is never notified twice even when iterations overlap notification latency.
type Scheduler struct {
	store    Store
	notifier model.Notifier
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler builds a stopped scheduler. A non-positive interval defaults
// to one minute.
func NewScheduler(store Store, notifier model.Notifier, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Scheduler{
		store:    store,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start launches the background poll loop. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)
	s.logger.Info("reminder scheduler started", "interval", s.interval)
}

// Stop signals the loop to exit and waits for the in-flight iteration to
// finish. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Poll(ctx)
		}
	}
}

// Poll runs one iteration: fetch due reminders, notify, mark sent. Any
// per-iteration failure is logged and never stops future iterations.
func (s *Scheduler) Poll(ctx context.Context) {
	due, err := s.store.DueUnsentReminders(ctx, s.now())
	if err != nil {
		s.logger.Error("due reminder scan failed", "err", err)
		return
	}

	for _, r := range due {
		if err := s.notifier.Notify(ctx, model.Notification{
			Title:   r.EventTitle,
			Message: r.Message,
			Date:    r.EventDate,
			Time:    r.EventTime,
		}); err != nil {
			s.logger.Error("notification delivery failed", "reminder", r.ID, "err", err)
		}

		// Marked per reminder, not batched, so an overlapping iteration
		// never re-notifies.
		if err := s.store.MarkReminderSent(ctx, r.ID); err != nil {
			s.logger.Error("marking reminder sent failed", "reminder", r.ID, "err", err)
		}
	}
}
