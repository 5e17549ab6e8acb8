package extract

import (
	"fmt"
	"regexp"

	"github.com/lucasmr/memoria/pkg/model"
)

// Ordered date patterns for the heuristic fallback. Temporal markers are
// tried before the bare date so "ontem 14/01/2025" is attributed to the
// marked form, and each date is consumed at most once.
var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ontem\s+(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`hoje\s+(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`amanhã\s+(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
}

// FallbackExtract scans a transcript for date-like substrings and synthesizes
// a minimal DailyEvents per matched date. Used only when both model attempts
// fail to produce usable structured output.
func FallbackExtract(transcript string) []model.DailyEvents {
	seen := make(map[string]bool)
	var results []model.DailyEvents

	for _, pattern := range fallbackPatterns {
		for _, match := range pattern.FindAllStringSubmatch(transcript, -1) {
			date := match[1]
			if seen[date] {
				continue
			}
			seen[date] = true
			results = append(results, model.DailyEvents{
				Date: date,
				Events: []model.Event{{
					Title:       fmt.Sprintf("Evento em %s", date),
					Description: fmt.Sprintf("Evento mencionado para %s", date),
					Category:    model.CategoryOutros,
					Priority:    model.PriorityMedia,
				}},
			})
		}
	}
	return results
}
