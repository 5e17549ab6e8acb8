package model

import (
	"context"
	"time"
)

// Category is the closed set of event categories. Raw model output is always
// remapped into this set before an Event is considered valid.
type Category string

const (
	CategoryTrabalho   Category = "trabalho"
	CategorySaude      Category = "saude"
	CategoryPessoal    Category = "pessoal"
	CategoryFamilia    Category = "familia"
	CategoryLazer      Category = "lazer"
	CategoryEstudos    Category = "estudos"
	CategoryFinanceiro Category = "financeiro"
	CategoryOutros     Category = "outros"
)

// Priority is the closed set of event priorities.
type Priority string

const (
	PriorityBaixa   Priority = "baixa"
	PriorityMedia   Priority = "media"
	PriorityAlta    Priority = "alta"
	PriorityUrgente Priority = "urgente"
)

// Event is one extracted calendar-like entry. Time, Location and Reminder are
// optional; an empty string means absent.
type Event struct {
	ID          string   `json:"id,omitempty"`
	Date        string   `json:"date,omitempty"` // DD/MM/YYYY, set when loaded from storage
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Time        string   `json:"time,omitempty"` // HH:MM
	Location    string   `json:"location,omitempty"`
	Reminder    string   `json:"reminder,omitempty"` // free-text phrase, e.g. "1h antes"
}

// DailyEvents groups the events extracted for one calendar day.
type DailyEvents struct {
	Date   string  `json:"date"` // DD/MM/YYYY
	Events []Event `json:"events"`
}

// Interaction is one append-only log entry pairing the user's transcript with
// the assistant's visible reply.
type Interaction struct {
	ID               string    `json:"id,omitempty"`
	HumanMessage     string    `json:"human_message"`
	AssistantMessage string    `json:"assistant_message"`
	Context          string    `json:"context,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// Reminder schedules a notification for an event. It transitions
// sent=false -> sent=true exactly once, performed by the scheduler.
type Reminder struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	FireAt    time.Time `json:"fire_at"`
	Message   string    `json:"message"`
	Sent      bool      `json:"sent"`
	CreatedAt time.Time `json:"created_at"`

	// Denormalized event fields, populated by the due-reminder query so the
	// notifier has something to show without a second round trip.
	EventTitle string `json:"event_title,omitempty"`
	EventDate  string `json:"event_date,omitempty"`
	EventTime  string `json:"event_time,omitempty"`
}

// Identity is lightweight relationship metadata about a person mentioned in
// speech, keyed by name.
type Identity struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	Role         string    `json:"role,omitempty"`
	Relationship string    `json:"relationship,omitempty"`
	Preferences  string    `json:"preferences,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// MemoryContext is the per-turn snapshot of recent memory fed to the model.
// It is fetched fresh every turn and never cached in process state.
type MemoryContext struct {
	RecentEvents       []Event       `json:"events"`
	RecentInteractions []Interaction `json:"interactions"`
}

// Store is the persistence collaborator. Implementations own the layout;
// callers depend only on these operations.
type Store interface {
	// SaveEvents persists all events of one day and returns them with IDs
	// assigned.
	SaveEvents(ctx context.Context, de DailyEvents) ([]Event, error)
	GetEventsByDate(ctx context.Context, date string) ([]Event, error)

	SaveInteraction(ctx context.Context, in Interaction) error
	GetRecentInteractions(ctx context.Context, limit int) ([]Interaction, error)

	// GetMemoryContext returns events from the last seven days plus the most
	// recent interactions.
	GetMemoryContext(ctx context.Context) (*MemoryContext, error)

	CreateReminder(ctx context.Context, r Reminder) error
	DueUnsentReminders(ctx context.Context, now time.Time) ([]Reminder, error)
	MarkReminderSent(ctx context.Context, id string) error

	GetIdentity(ctx context.Context, name string) (*Identity, error)
	UpsertIdentity(ctx context.Context, id Identity) error
	ListIdentities(ctx context.Context) ([]Identity, error)

	Close() error
}

// ExtractRequest is one attempt against the extraction service.
type ExtractRequest struct {
	System    string
	User      string
	ForceTool bool
}

// ExtractResponse is the sole shape the orchestrator depends on from the
// model-call collaborator.
type ExtractResponse struct {
	ToolInvoked   bool
	ToolArguments map[string]any
	FreeText      string
}

// Extractor calls the language model with the daily-events tool attached.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error)
}

// Transcriber turns a recorded audio clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Notification carries what the user sees when a reminder fires.
type Notification struct {
	Title   string
	Message string
	Date    string
	Time    string
}

// Notifier delivers a notification. Delivery is best-effort: failures are
// logged by callers, never propagated.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
