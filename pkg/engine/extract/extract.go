// Package extract turns free-form transcripts into validated daily-events
// records. It drives the language model through up to two attempts (an open
// one and a forced tool invocation), repairs whatever payload comes back, and
// degrades to a heuristic date scanner when the model produces nothing usable.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lucasmr/memoria/pkg/model"
)

// Transcripts containing any of these markers describe events worth a forced
// second attempt when the model skipped the tool.
var eventKeywords = []string{
	"ontem", "hoje", "amanhã", "estive", "estou", "estarei",
	"visita", "viagem", "reunião", "consulta", "estudar", "trabalho", "família",
}

// Exit commands never trigger a forced attempt.
var exitKeywords = []string{
	"sair", "quit", "exit", "encerrar", "parar", "fechar", "close", "stop", "tchau", "bye",
}

// HasEventKeywords reports whether the transcript mentions temporal or
// activity markers, excluding exit commands.
func HasEventKeywords(transcript string) bool {
	lowered := strings.ToLower(transcript)
	if IsExitCommand(lowered) {
		return false
	}
	for _, kw := range eventKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// IsExitCommand reports whether the transcript asks the assistant to stop.
func IsExitCommand(transcript string) bool {
	lowered := strings.ToLower(transcript)
	for _, kw := range exitKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// Outcome is the terminal result of one transcript turn.
type Outcome struct {
	// Results holds zero or more validated daily-events groups. The model
	// path yields at most one; the fallback may yield several, one per
	// matched date.
	Results []model.DailyEvents
	// FromFallback marks results synthesized by the heuristic scanner.
	FromFallback bool
	// Reply is the model's free-form text, if any. When Results is empty it
	// is the whole outcome of the turn.
	Reply string
}

// Orchestrator runs the primary/forced/fallback state machine over a single
// transcript turn.
type Orchestrator struct {
	extractor model.Extractor
	logger    *slog.Logger
}

// NewOrchestrator wires the model-call collaborator.
func NewOrchestrator(extractor model.Extractor, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Orchestrator{extractor: extractor, logger: logger}
}

// Run executes one turn. It fails only when the model-call collaborator
// itself fails; unusable payloads are handled by the fallback.
func (o *Orchestrator) Run(ctx context.Context, transcript string, pc PromptContext) (*Outcome, error) {
	resp, err := o.extractor.Extract(ctx, model.ExtractRequest{
		System: primaryPrompt(pc),
		User:   transcript,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: primary attempt: %v", model.ErrModelCall, err)
	}

	if !resp.ToolInvoked && HasEventKeywords(transcript) {
		o.logger.Info("event keywords present but no tool invocation, forcing second attempt")
		forced, err := o.extractor.Extract(ctx, model.ExtractRequest{
			System:    forcedPrompt(pc, transcript),
			User:      transcript,
			ForceTool: true,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: forced attempt: %v", model.ErrModelCall, err)
		}
		resp = forced
	}

	if resp.ToolInvoked {
		de, err := o.interpretToolCall(resp.ToolArguments)
		if err == nil {
			return &Outcome{Results: []model.DailyEvents{*de}, Reply: resp.FreeText}, nil
		}

		var schemaErr *model.SchemaError
		if errors.As(err, &schemaErr) {
			o.logger.Warn("tool payload failed validation, trying heuristic fallback", "err", schemaErr)
		} else {
			o.logger.Warn("unusable tool payload, trying heuristic fallback", "err", err)
		}
	}

	// Neither attempt produced a usable payload. A date-bearing transcript
	// still yields synthetic events; anything else stays a plain reply.
	if results := FallbackExtract(transcript); len(results) > 0 {
		return &Outcome{Results: results, FromFallback: true, Reply: resp.FreeText}, nil
	}

	return &Outcome{Reply: resp.FreeText}, nil
}

var errEmptyEvents = errors.New("tool payload carries no events")

func (o *Orchestrator) interpretToolCall(args map[string]any) (*model.DailyEvents, error) {
	if args == nil {
		return nil, errEmptyEvents
	}
	de, err := ParseDailyEvents(NormalizePayload(args))
	if err != nil {
		return nil, err
	}
	if len(de.Events) == 0 {
		return nil, errEmptyEvents
	}
	return de, nil
}
