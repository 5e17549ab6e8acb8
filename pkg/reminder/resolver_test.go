package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmr/memoria/pkg/model"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name      string
		phrase    string
		eventDate string
		eventTime string
		want      time.Time
	}{
		{
			name:      "30 minutes before a timed event",
			phrase:    "30 minutes before",
			eventDate: "15/01/2025",
			eventTime: "14:00",
			want:      time.Date(2025, 1, 15, 13, 30, 0, 0, time.Local),
		},
		{
			name:      "30 minutos portuguese form",
			phrase:    "me avise 30 minutos antes",
			eventDate: "15/01/2025",
			eventTime: "14:00",
			want:      time.Date(2025, 1, 15, 13, 30, 0, 0, time.Local),
		},
		{
			name:      "1 day before an untimed event",
			phrase:    "1 day before",
			eventDate: "15/01/2025",
			want:      time.Date(2025, 1, 14, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "2 hours",
			phrase:    "2 horas antes",
			eventDate: "15/01/2025",
			eventTime: "18:00",
			want:      time.Date(2025, 1, 15, 16, 0, 0, 0, time.Local),
		},
		{
			name:      "1h shorthand",
			phrase:    "1h antes",
			eventDate: "16/01/2025",
			eventTime: "15:00",
			want:      time.Date(2025, 1, 16, 14, 0, 0, 0, time.Local),
		},
		{
			name:      "unmatched phrase defaults to one hour",
			phrase:    "gibberish",
			eventDate: "15/01/2025",
			eventTime: "09:00",
			want:      time.Date(2025, 1, 15, 8, 0, 0, 0, time.Local),
		},
		{
			name:      "unparseable time degrades to one hour before midnight",
			phrase:    "30 minutos",
			eventDate: "15/01/2025",
			eventTime: "nope",
			want:      time.Date(2025, 1, 14, 23, 0, 0, 0, time.Local),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.phrase, tc.eventDate, tc.eventTime)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %v, want %v", got, tc.want)
		})
	}
}

func TestResolveBadDate(t *testing.T) {
	_, err := Resolve("1h antes", "2025-01-15", "14:00")

	var parseErr *model.ReminderParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "2025-01-15", parseErr.Date)
}
