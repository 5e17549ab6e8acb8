package extract

import (
	"strings"

	"github.com/lucasmr/memoria/pkg/model"
)

// The model is told to answer with English field names and the closed
// category/priority vocabularies, but it regularly drifts into Portuguese
// field names and free-form values. These tables are the single source of
// truth for the recognized synonyms; extend them here, not in control flow.

// fieldNames maps localized event field names to the canonical English ones.
// Unknown keys pass through unchanged, which also makes the translation
// idempotent.
var fieldNames = map[string]string{
	"título":     "title",
	"titulo":     "title",
	"descrição":  "description",
	"descricao":  "description",
	"categoria":  "category",
	"prioridade": "priority",
	"horário":    "time",
	"horario":    "time",
	"local":      "location",
	"lembrete":   "reminder",
}

var categorySynonyms = map[string]model.Category{
	"viagem":      model.CategoryLazer,
	"travel":      model.CategoryLazer,
	"trip":        model.CategoryLazer,
	"reunião":     model.CategoryTrabalho,
	"meeting":     model.CategoryTrabalho,
	"consulta":    model.CategorySaude,
	"appointment": model.CategorySaude,
	"médico":      model.CategorySaude,
	"doctor":      model.CategorySaude,
	"estudo":      model.CategoryEstudos,
	"study":       model.CategoryEstudos,
	"curso":       model.CategoryEstudos,
	"course":      model.CategoryEstudos,
	"família":     model.CategoryFamilia,
	"family":      model.CategoryFamilia,
	"pessoal":     model.CategoryPessoal,
	"personal":    model.CategoryPessoal,
	"financeiro":  model.CategoryFinanceiro,
	"financial":   model.CategoryFinanceiro,
	"conta":       model.CategoryFinanceiro,
	"bill":        model.CategoryFinanceiro,
}

var prioritySynonyms = map[string]model.Priority{
	"normal":     model.PriorityMedia,
	"regular":    model.PriorityMedia,
	"usual":      model.PriorityMedia,
	"importante": model.PriorityAlta,
	"important":  model.PriorityAlta,
	"urgente":    model.PriorityUrgente,
	"urgent":     model.PriorityUrgente,
	"baixa":      model.PriorityBaixa,
	"low":        model.PriorityBaixa,
}

// NormalizeFieldNames rewrites the keys of a single event entry to the
// canonical English field names. Values are untouched.
func NormalizeFieldNames(event map[string]any) map[string]any {
	out := make(map[string]any, len(event))
	for k, v := range event {
		if canonical, ok := fieldNames[k]; ok {
			out[canonical] = v
		} else {
			out[k] = v
		}
	}
	return out
}

// NormalizeCategory maps a raw category string onto the closed enumeration.
// Canonical values map to themselves; anything unrecognized becomes outros.
func NormalizeCategory(raw string) model.Category {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := categorySynonyms[lowered]; ok {
		return c
	}
	switch model.Category(lowered) {
	case model.CategoryTrabalho, model.CategorySaude, model.CategoryPessoal,
		model.CategoryFamilia, model.CategoryLazer, model.CategoryEstudos,
		model.CategoryFinanceiro, model.CategoryOutros:
		return model.Category(lowered)
	}
	return model.CategoryOutros
}

// NormalizePriority maps a raw priority string onto the closed enumeration;
// anything unrecognized becomes media.
func NormalizePriority(raw string) model.Priority {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if p, ok := prioritySynonyms[lowered]; ok {
		return p
	}
	switch model.Priority(lowered) {
	case model.PriorityBaixa, model.PriorityMedia, model.PriorityAlta, model.PriorityUrgente:
		return model.Priority(lowered)
	}
	return model.PriorityMedia
}

// NormalizePayload repairs a raw tool-call payload in place of validation:
// field names are translated and category/priority values are forced into
// their enumerations. Presence of title/description is left to ParseDailyEvents.
func NormalizePayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}

	rawEvents, ok := out["events"].([]any)
	if !ok {
		return out
	}

	events := make([]any, 0, len(rawEvents))
	for _, raw := range rawEvents {
		entry, ok := raw.(map[string]any)
		if !ok {
			events = append(events, raw)
			continue
		}
		entry = NormalizeFieldNames(entry)
		if c, ok := entry["category"].(string); ok {
			entry["category"] = string(NormalizeCategory(c))
		}
		if p, ok := entry["priority"].(string); ok {
			entry["priority"] = string(NormalizePriority(p))
		}
		events = append(events, entry)
	}
	out["events"] = events
	return out
}
