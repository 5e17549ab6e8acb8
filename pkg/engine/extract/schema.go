package extract

import (
	"fmt"
	"time"

	"github.com/lucasmr/memoria/pkg/model"
)

// DateLayout is the external calendar date format used across the assistant.
const DateLayout = "02/01/2006"

// ParseDailyEvents validates a normalized payload against the daily-events
// schema and builds the typed result. Category and priority are coerced, not
// rejected: the payload comes from an unreliable generator and NormalizePayload
// has already run, but coercion here keeps the closure invariant even for
// callers that skip normalization.
func ParseDailyEvents(payload map[string]any) (*model.DailyEvents, error) {
	date, ok := payload["date"].(string)
	if !ok || date == "" {
		return nil, &model.SchemaError{Field: "date", Reason: "missing"}
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, &model.SchemaError{Field: "date", Reason: fmt.Sprintf("not a DD/MM/YYYY date: %q", date)}
	}

	rawEvents, ok := payload["events"].([]any)
	if !ok {
		return nil, &model.SchemaError{Field: "events", Reason: "missing"}
	}

	de := &model.DailyEvents{Date: date}
	for i, raw := range rawEvents {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, &model.SchemaError{Field: fmt.Sprintf("events[%d]", i), Reason: "not an object"}
		}

		title := stringField(entry, "title")
		if title == "" {
			return nil, &model.SchemaError{Field: fmt.Sprintf("events[%d].title", i), Reason: "missing"}
		}
		description := stringField(entry, "description")
		if description == "" {
			return nil, &model.SchemaError{Field: fmt.Sprintf("events[%d].description", i), Reason: "missing"}
		}

		de.Events = append(de.Events, model.Event{
			Title:       title,
			Description: description,
			Category:    NormalizeCategory(stringField(entry, "category")),
			Priority:    NormalizePriority(stringField(entry, "priority")),
			Time:        stringField(entry, "time"),
			Location:    stringField(entry, "location"),
			Reminder:    stringField(entry, "reminder"),
		})
	}
	return de, nil
}

func stringField(entry map[string]any, key string) string {
	v, _ := entry[key].(string)
	return v
}
