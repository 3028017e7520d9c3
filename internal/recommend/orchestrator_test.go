package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenova-spa/recommend-platform/internal/catalog"
	"github.com/serenova-spa/recommend-platform/internal/events"
	"github.com/serenova-spa/recommend-platform/internal/llm"
)

type fakeGenerator struct {
	text   string
	model  string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, req llm.Request) (string, string, error) {
	if len(req.Messages) > 0 {
		f.prompt = req.Messages[len(req.Messages)-1].Content
	}
	return f.text, f.model, f.err
}

func tenAnswers() []RenderedAnswer {
	answers := make([]RenderedAnswer, 10)
	for i := range answers {
		answers[i] = RenderedAnswer{Question: "¿Pregunta?", Answer: "Respuesta"}
	}
	answers[0] = RenderedAnswer{Question: "¿Qué zonas quieres trabajar?", Answer: "Espalda alta, Piernas"}
	return answers
}

func testOrchestrator(t *testing.T, gen TextGenerator, store Store, bus *events.Bus) *Orchestrator {
	t.Helper()
	entries, err := catalog.Load()
	require.NoError(t, err)
	return NewOrchestrator(OrchestratorConfig{
		Generator: gen,
		Catalog:   entries,
		Store:     store,
		Bus:       bus,
	})
}

func TestSubmitHappyPath(t *testing.T) {
	gen := &fakeGenerator{
		model: "gemini-2.5-flash",
		text: `Servicio recomendado: Masaje Descontracturante
Categoría: Terapéuticos
Duración sugerida: 90 minutos
Premium: no
Motivo de la recomendación: mencionaste tensión en la espalda alta
Opciones alternativas:
- Masaje de Tejido Profundo
- Terapia galáctica de cristales
Alertas: ninguna`,
	}
	store := NewMemoryStore()
	orc := testOrchestrator(t, gen, store, nil)

	res, err := orc.Submit(context.Background(), "session-1", tenAnswers())
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", res.Model)
	require.NotNil(t, res.Recommended)
	require.NotNil(t, res.Recommended.Entry)
	assert.Equal(t, "masaje-descontracturante", res.Recommended.Entry.ID)
	require.NotNil(t, res.Recommended.Handoff)
	assert.Equal(t, "90 min", res.Recommended.Handoff.SelectedDurationLabel)

	require.Len(t, res.Alternatives, 2)
	require.NotNil(t, res.Alternatives[0].Entry)
	assert.Equal(t, "tejido-profundo", res.Alternatives[0].Entry.ID)
	// Unresolved mentions stay as plain text, never hidden.
	assert.Nil(t, res.Alternatives[1].Entry)
	assert.Equal(t, "Terapia galáctica de cristales", res.Alternatives[1].SourceText)

	// The raw text is persisted for the session.
	prev, err := store.LoadPrevious(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, res.Raw, prev)
}

func TestSubmitPromptEmbedsCatalogAndAnswers(t *testing.T) {
	gen := &fakeGenerator{text: "Servicio recomendado: Masaje Relajante"}
	orc := testOrchestrator(t, gen, nil, nil)

	_, err := orc.Submit(context.Background(), "s", tenAnswers())
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "Masaje con Piedras Volcánicas")
	assert.Contains(t, gen.prompt, "Espalda alta, Piernas")
	assert.Contains(t, gen.prompt, "Servicio recomendado:")
}

func TestSubmitUpstreamUnavailable(t *testing.T) {
	gen := &fakeGenerator{err: llm.ErrUnavailable}
	bus := events.NewBus()
	var notes []events.Notification
	bus.Subscribe(func(n events.Notification) { notes = append(notes, n) })

	orc := testOrchestrator(t, gen, NewMemoryStore(), bus)

	_, err := orc.Submit(context.Background(), "s", tenAnswers())
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrUnavailable)

	require.Len(t, notes, 1)
	assert.Equal(t, events.LevelError, notes[0].Level)
}

func TestSubmitWrongAnswerCount(t *testing.T) {
	orc := testOrchestrator(t, &fakeGenerator{text: "x"}, nil, nil)

	_, err := orc.Submit(context.Background(), "s", []RenderedAnswer{{Question: "q", Answer: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 10")
}

func TestSubmitUnstructuredReplyDegrades(t *testing.T) {
	gen := &fakeGenerator{text: "Ven al spa y te atenderemos con gusto."}
	orc := testOrchestrator(t, gen, nil, nil)

	res, err := orc.Submit(context.Background(), "s", tenAnswers())
	require.NoError(t, err)
	assert.Nil(t, res.Recommended)
	assert.Empty(t, res.Alternatives)
	assert.Equal(t, gen.text, res.Raw)
}

func TestSubmitStoreFailureDoesNotFailSubmission(t *testing.T) {
	gen := &fakeGenerator{text: "Servicio recomendado: Masaje Relajante"}
	orc := testOrchestrator(t, gen, failingStore{}, events.NewBus())

	res, err := orc.Submit(context.Background(), "s", tenAnswers())
	require.NoError(t, err)
	require.NotNil(t, res.Recommended)
}

type failingStore struct{}

func (failingStore) SavePrevious(context.Context, string, string) error {
	return errors.New("redis down")
}

func (failingStore) LoadPrevious(context.Context, string) (string, error) {
	return "", errors.New("redis down")
}

func TestBuildPromptListsEveryService(t *testing.T) {
	entries, err := catalog.Load()
	require.NoError(t, err)

	prompt := BuildPrompt(entries, tenAnswers())
	for _, e := range entries {
		if !strings.Contains(prompt, e.Name) {
			t.Errorf("prompt missing service %q", e.Name)
		}
	}
}
