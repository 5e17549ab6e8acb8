// Package reminder converts free-text reminder phrases into absolute fire
// times and polls for due reminders in the background.
package reminder

import (
	"strings"
	"time"

	"github.com/lucasmr/memoria/pkg/model"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"

	defaultLead = time.Hour
)

// Ordered phrase table. Matching is case-insensitive substring search; the
// first row that matches wins, anything unmatched falls back to one hour.
var leadTable = []struct {
	phrases []string
	lead    time.Duration
}{
	{[]string{"30min", "30 minutos", "30 minutes"}, 30 * time.Minute},
	{[]string{"1h", "1 hora", "1 hour"}, time.Hour},
	{[]string{"2h", "2 horas", "2 hours"}, 2 * time.Hour},
	{[]string{"1 dia", "1 day", "1d"}, 24 * time.Hour},
}

// Resolve converts a reminder phrase plus the event's date (DD/MM/YYYY) and
// optional time (HH:MM) into an absolute fire time. An unparseable time
// degrades to the default one-hour lead against midnight; an unparseable date
// is the only failure, reported as *model.ReminderParseError.
func Resolve(phrase, eventDate, eventTime string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, eventDate, time.Local)
	if err != nil {
		return time.Time{}, &model.ReminderParseError{Date: eventDate, Err: err}
	}

	if eventTime != "" {
		at, err := time.ParseInLocation(dateTimeLayout, eventDate+" "+eventTime, time.Local)
		if err != nil {
			return day.Add(-defaultLead), nil
		}
		return at.Add(-leadFor(phrase)), nil
	}

	return day.Add(-leadFor(phrase)), nil
}

func leadFor(phrase string) time.Duration {
	lowered := strings.ToLower(strings.TrimSpace(phrase))
	for _, row := range leadTable {
		for _, p := range row.phrases {
			if strings.Contains(lowered, p) {
				return row.lead
			}
		}
	}
	return defaultLead
}
