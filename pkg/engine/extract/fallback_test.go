package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmr/memoria/pkg/model"
)

func TestFallbackExtractSingleDate(t *testing.T) {
	results := FallbackExtract("estive em São Paulo ontem 14/01/2025")

	require.Len(t, results, 1)
	de := results[0]
	assert.Equal(t, "14/01/2025", de.Date)
	require.Len(t, de.Events, 1)
	ev := de.Events[0]
	assert.Equal(t, "Evento em 14/01/2025", ev.Title)
	assert.Equal(t, "Evento mencionado para 14/01/2025", ev.Description)
	assert.Equal(t, model.CategoryOutros, ev.Category)
	assert.Equal(t, model.PriorityMedia, ev.Priority)
}

func TestFallbackExtractMultipleDates(t *testing.T) {
	results := FallbackExtract("viajei hoje 10/02/2025 e volto amanhã 11/02/2025")

	require.Len(t, results, 2)
	dates := []string{results[0].Date, results[1].Date}
	assert.Contains(t, dates, "10/02/2025")
	assert.Contains(t, dates, "11/02/2025")
}

func TestFallbackExtractBareDate(t *testing.T) {
	results := FallbackExtract("a entrega é 05/03/2025")

	require.Len(t, results, 1)
	assert.Equal(t, "05/03/2025", results[0].Date)
}

func TestFallbackExtractNothing(t *testing.T) {
	assert.Empty(t, FallbackExtract("como você está hoje?"))
	assert.Empty(t, FallbackExtract(""))
}
