package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmr/memoria/pkg/model"
)

type memStore struct {
	identities map[string]model.Identity
}

func newMemStore() *memStore {
	return &memStore{identities: make(map[string]model.Identity)}
}

func (m *memStore) GetIdentity(_ context.Context, name string) (*model.Identity, error) {
	id, ok := m.identities[name]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (m *memStore) UpsertIdentity(_ context.Context, id model.Identity) error {
	m.identities[id.Name] = id
	return nil
}

func (m *memStore) ListIdentities(_ context.Context) ([]model.Identity, error) {
	var out []model.Identity
	for _, id := range m.identities {
		out = append(out, id)
	}
	return out, nil
}

func TestExtractFromText(t *testing.T) {
	cases := []struct {
		name             string
		text             string
		wantName         string
		wantRelationship string
	}{
		{
			name:             "possessive relationship",
			text:             "almocei com minha amiga Carla",
			wantName:         "Carla",
			wantRelationship: "",
		},
		{
			name:             "is-my pattern captures relationship",
			text:             "Pedro é meu irmão",
			wantName:         "Pedro",
			wantRelationship: "irmão",
		},
		{
			name:     "verb pattern",
			text:     "Mariana trabalha no hospital",
			wantName: "Mariana",
		},
		{
			name:     "met-with pattern",
			text:     "ontem encontrei Roberto no mercado",
			wantName: "Roberto",
		},
		{
			name:     "meeting-with pattern",
			text:     "tive uma reunião com Fernanda",
			wantName: "Fernanda",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			m := NewManager(store, nil)

			matches, err := m.ExtractFromText(context.Background(), tc.text)
			require.NoError(t, err)
			require.Len(t, matches, 1)
			assert.Equal(t, tc.wantName, matches[0].Name)
			assert.Equal(t, tc.wantRelationship, matches[0].Relationship)
			assert.Equal(t, "added", matches[0].Action)

			_, ok := store.identities[tc.wantName]
			assert.True(t, ok, "identity should be stored")
		})
	}
}

func TestExtractFromTextKnownPerson(t *testing.T) {
	store := newMemStore()
	store.identities["Pedro"] = model.Identity{Name: "Pedro", Relationship: "irmão"}
	m := NewManager(store, nil)

	matches, err := m.ExtractFromText(context.Background(), "falei com Pedro hoje")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "found", matches[0].Action)
	assert.Equal(t, "irmão", matches[0].Relationship)
}

func TestExtractFromTextIgnoresNonNames(t *testing.T) {
	store := newMemStore()
	m := NewManager(store, nil)

	matches, err := m.ExtractFromText(context.Background(), "Hoje vai chover")
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Empty(t, store.identities)
}

func TestAllContexts(t *testing.T) {
	store := newMemStore()
	store.identities["Carla"] = model.Identity{
		Name:         "Carla",
		Relationship: "amiga",
		Preferences:  "café sem açúcar",
	}
	m := NewManager(store, nil)

	out, err := m.AllContexts(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "Pessoa: Carla")
	assert.Contains(t, out, "Relacionamento: amiga")
	assert.Contains(t, out, "Preferências: café sem açúcar")
}

func TestAllContextsEmpty(t *testing.T) {
	m := NewManager(newMemStore(), nil)
	out, err := m.AllContexts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}
