// Package identity recognizes named people mentioned in transcripts and keeps
// lightweight relationship metadata about them. It is heuristic by design: a
// small set of Portuguese patterns, good enough to enrich the extraction
// prompt with who is who.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/lucasmr/memoria/pkg/model"
)

const name = `(\p{Lu}\p{Ll}+(?:\s+\p{Lu}\p{Ll}+)*)`

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:meu|minha)\s+(?:amigo|amiga|irmão|irmã|pai|mãe|filho|filha|marido|esposa|namorado|namorada|colega|vizinho|professor|médico)\s+` + name),
	regexp.MustCompile(name + `\s+(?:é|é meu|é minha)\s+(amigo|amiga|irmão|irmã|pai|mãe|filho|filha|marido|esposa|namorado|namorada)`),
	regexp.MustCompile(name + `\s+(?:trabalha|estuda|mora|gosta|prefere|está|foi|vai)\s+`),
	regexp.MustCompile(`(?:conheci|encontrei|falei com|visitei|chamei)\s+` + name),
	regexp.MustCompile(name + `\s+(?:disse|falou|mencionou|contou|explicou)`),
	regexp.MustCompile(`(?:reunião|almoço|jantar|encontro|conversa)\s+(?:com|entre)\s+` + name),
}

// Words that look like capitalized names but never are.
var invalidNames = map[string]bool{
	"hoje": true, "amanhã": true, "ontem": true, "agora": true,
	"depois": true, "antes": true, "sempre": true, "nunca": true,
}

// Match reports one recognized person and whether it was newly stored.
type Match struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Action       string `json:"action"` // "added" or "found"
}

// Store is the slice of the storage collaborator this package needs.
type Store interface {
	GetIdentity(ctx context.Context, name string) (*model.Identity, error)
	UpsertIdentity(ctx context.Context, id model.Identity) error
	ListIdentities(ctx context.Context) ([]model.Identity, error)
}

// Manager extracts identities from transcripts and renders their contexts.
type Manager struct {
	store  Store
	logger *slog.Logger
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Manager{store: store, logger: logger}
}

// ExtractFromText scans the transcript for people, upserting any new name.
func (m *Manager) ExtractFromText(ctx context.Context, text string) ([]Match, error) {
	var matches []Match
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		for _, groups := range pattern.FindAllStringSubmatch(text, -1) {
			personName := strings.TrimSpace(groups[1])
			relationship := ""
			if len(groups) > 2 {
				relationship = groups[2]
			}
			if !validName(personName) || seen[personName] {
				continue
			}
			seen[personName] = true

			existing, err := m.store.GetIdentity(ctx, personName)
			if err != nil {
				return nil, fmt.Errorf("look up identity %q: %w", personName, err)
			}
			if existing != nil {
				matches = append(matches, Match{Name: personName, Relationship: existing.Relationship, Action: "found"})
				continue
			}

			if err := m.store.UpsertIdentity(ctx, model.Identity{Name: personName, Relationship: relationship}); err != nil {
				return nil, fmt.Errorf("store identity %q: %w", personName, err)
			}
			m.logger.Info("new identity recognized", "name", personName, "relationship", relationship)
			matches = append(matches, Match{Name: personName, Relationship: relationship, Action: "added"})
		}
	}
	return matches, nil
}

// AllContexts renders every known identity as one context line, ready to be
// folded into the extraction prompt.
func (m *Manager) AllContexts(ctx context.Context) (string, error) {
	identities, err := m.store.ListIdentities(ctx)
	if err != nil {
		return "", fmt.Errorf("list identities: %w", err)
	}

	lines := make([]string, 0, len(identities))
	for _, id := range identities {
		lines = append(lines, contextLine(id))
	}
	return strings.Join(lines, "\n"), nil
}

func contextLine(id model.Identity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Pessoa: %s", id.Name)
	if id.Role != "" {
		fmt.Fprintf(&sb, ", Papel: %s", id.Role)
	}
	if id.Relationship != "" {
		fmt.Fprintf(&sb, ", Relacionamento: %s", id.Relationship)
	}
	if id.Preferences != "" {
		fmt.Fprintf(&sb, ", Preferências: %s", id.Preferences)
	}
	if id.Notes != "" {
		fmt.Fprintf(&sb, ", Notas: %s", id.Notes)
	}
	return sb.String()
}

func validName(n string) bool {
	return len(n) > 1 && !invalidNames[strings.ToLower(n)]
}
