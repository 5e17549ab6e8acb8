// Package assistant is the turn engine: one ProcessTranscript call takes a
// transcript through context gathering, extraction, persistence and reply
// building. Turns are strictly sequential; context is fetched fresh from the
// store every turn and never cached in process state.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lucasmr/memoria/pkg/engine/extract"
	"github.com/lucasmr/memoria/pkg/identity"
	"github.com/lucasmr/memoria/pkg/model"
	"github.com/lucasmr/memoria/pkg/reminder"
)

// Options configures the Assistant.
type Options struct {
	Store       model.Store
	Extractor   model.Extractor
	Transcriber model.Transcriber // optional; required only for ProcessAudio
	Logger      *slog.Logger
	Now         func() time.Time // test hook, defaults to time.Now
}

// Assistant orchestrates one transcript turn end to end.
type Assistant struct {
	store        model.Store
	transcriber  model.Transcriber
	orchestrator *extract.Orchestrator
	identities   *identity.Manager
	logger       *slog.Logger
	now          func() time.Time
}

// TurnResult is everything one turn produced.
type TurnResult struct {
	Transcript       string              `json:"transcript"`
	Reply            string              `json:"reply"`
	SavedEvents      []model.Event       `json:"saved_events,omitempty"`
	RemindersCreated int                 `json:"reminders_created"`
	FromFallback     bool                `json:"from_fallback,omitempty"`
	Identities       []identity.Match    `json:"identities,omitempty"`
	ExitRequested    bool                `json:"exit_requested,omitempty"`
}

// New wires the collaborators together.
func New(opt Options) (*Assistant, error) {
	if opt.Store == nil {
		return nil, errors.New("store is required")
	}
	if opt.Extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}

	return &Assistant{
		store:        opt.Store,
		transcriber:  opt.Transcriber,
		orchestrator: extract.NewOrchestrator(opt.Extractor, opt.Logger),
		identities:   identity.NewManager(opt.Store, opt.Logger),
		logger:       opt.Logger,
		now:          opt.Now,
	}, nil
}

// ProcessAudio transcribes a recorded clip and runs the resulting text
// through ProcessTranscript.
func (a *Assistant) ProcessAudio(ctx context.Context, audioPath string) (*TurnResult, error) {
	if a.transcriber == nil {
		return nil, errors.New("no transcriber configured")
	}
	text, err := a.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	return a.ProcessTranscript(ctx, text)
}

// ProcessTranscript runs one full turn. Exactly one interaction record is
// appended for every completed turn; exit commands complete the turn without
// side effects.
func (a *Assistant) ProcessTranscript(ctx context.Context, transcript string) (*TurnResult, error) {
	transcript = strings.TrimSpace(transcript)
	result := &TurnResult{Transcript: transcript}

	if transcript == "" {
		return nil, errors.New("empty transcript")
	}
	if extract.IsExitCommand(transcript) {
		result.ExitRequested = true
		result.Reply = "Encerrando aplicação. Até logo!"
		return result, nil
	}

	// Identity enrichment is best-effort; a failure here never fails the turn.
	matches, err := a.identities.ExtractFromText(ctx, transcript)
	if err != nil {
		a.logger.Warn("identity extraction failed", "err", err)
	}
	result.Identities = matches

	pc, identityContext, err := a.buildPromptContext(ctx)
	if err != nil {
		return nil, err
	}

	outcome, err := a.orchestrator.Run(ctx, transcript, pc)
	if err != nil {
		return nil, err
	}
	result.FromFallback = outcome.FromFallback

	for _, de := range outcome.Results {
		saved, err := a.store.SaveEvents(ctx, de)
		if err != nil {
			return nil, fmt.Errorf("%w: save events for %s: %v", model.ErrStorage, de.Date, err)
		}
		result.SavedEvents = append(result.SavedEvents, saved...)
		result.RemindersCreated += a.createReminders(ctx, de.Date, saved)
	}

	result.Reply = a.buildReply(outcome, result)

	if err := a.store.SaveInteraction(ctx, model.Interaction{
		HumanMessage:     transcript,
		AssistantMessage: result.Reply,
		Context:          identityContext,
		Timestamp:        a.now(),
	}); err != nil {
		return nil, fmt.Errorf("%w: save interaction: %v", model.ErrStorage, err)
	}

	return result, nil
}

func (a *Assistant) buildPromptContext(ctx context.Context) (extract.PromptContext, string, error) {
	memory, err := a.store.GetMemoryContext(ctx)
	if err != nil {
		return extract.PromptContext{}, "", fmt.Errorf("%w: memory context: %v", model.ErrStorage, err)
	}
	memoryJSON, err := json.MarshalIndent(memory, "", "  ")
	if err != nil {
		return extract.PromptContext{}, "", fmt.Errorf("serialize memory context: %w", err)
	}

	identityContext, err := a.identities.AllContexts(ctx)
	if err != nil {
		a.logger.Warn("identity contexts unavailable", "err", err)
		identityContext = ""
	}

	return extract.PromptContext{
		CurrentDate: a.now().Format(extract.DateLayout),
		Memory:      string(memoryJSON),
		Identities:  identityContext,
	}, identityContext, nil
}

// createReminders schedules a reminder for every saved event carrying a
// reminder phrase. A malformed event date drops only the reminder, never the
// event.
func (a *Assistant) createReminders(ctx context.Context, date string, events []model.Event) int {
	created := 0
	for _, ev := range events {
		if ev.Reminder == "" {
			continue
		}

		fireAt, err := reminder.Resolve(ev.Reminder, date, ev.Time)
		if err != nil {
			var parseErr *model.ReminderParseError
			if errors.As(err, &parseErr) {
				a.logger.Warn("reminder left unscheduled", "event", ev.Title, "err", parseErr)
				continue
			}
			a.logger.Warn("reminder resolution failed", "event", ev.Title, "err", err)
			continue
		}

		if err := a.store.CreateReminder(ctx, model.Reminder{
			EventID: ev.ID,
			FireAt:  fireAt,
			Message: fmt.Sprintf("Lembrete: %s", ev.Title),
		}); err != nil {
			a.logger.Error("reminder creation failed", "event", ev.Title, "err", err)
			continue
		}
		created++
	}
	return created
}

func (a *Assistant) buildReply(outcome *extract.Outcome, result *TurnResult) string {
	if len(result.SavedEvents) == 0 {
		if outcome.Reply != "" {
			return outcome.Reply
		}
		return "Certo, anotado."
	}

	var sb strings.Builder
	if len(outcome.Results) == 1 {
		fmt.Fprintf(&sb, "Perfeito! Registrei %d evento(s) para %s.\n", len(result.SavedEvents), outcome.Results[0].Date)
	} else {
		fmt.Fprintf(&sb, "Perfeito! Registrei %d evento(s).\n", len(result.SavedEvents))
	}
	for _, ev := range result.SavedEvents {
		fmt.Fprintf(&sb, "- %s (%s, %s)\n", ev.Title, ev.Category, ev.Priority)
	}
	if result.RemindersCreated > 0 {
		sb.WriteString("Lembretes configurados automaticamente!")
	}
	return strings.TrimSpace(sb.String())
}
