package recommend

import (
	"context"
	"fmt"
	"regexp"

	"github.com/serenova-spa/recommend-platform/internal/catalog"
	"github.com/serenova-spa/recommend-platform/internal/events"
	"github.com/serenova-spa/recommend-platform/internal/llm"
	"github.com/serenova-spa/recommend-platform/internal/matching"
	"github.com/serenova-spa/recommend-platform/internal/observability/metrics"
	"github.com/serenova-spa/recommend-platform/pkg/logging"
)

// answerCount is the fixed questionnaire length.
const answerCount = 10

// TextGenerator produces raw recommendation text, walking a model
// fallback chain. Implemented by llm.ModelChain.
type TextGenerator interface {
	Generate(ctx context.Context, req llm.Request) (text, model string, err error)
}

// ServiceMatch pairs a mentioned service text with its resolved catalog
// entry, when one exists. Entry and Handoff are nil for unresolved
// mentions, which are still rendered as plain text.
type ServiceMatch struct {
	SourceText string         `json:"source_text"`
	Entry      *catalog.Entry `json:"entry,omitempty"`
	Handoff    *Handoff       `json:"handoff,omitempty"`
}

// Result is a complete recommendation: the raw model reply, its parsed
// fields, and the catalog resolution of every mentioned service.
type Result struct {
	Raw          string               `json:"raw"`
	Model        string               `json:"model"`
	Parsed       ParsedRecommendation `json:"parsed"`
	Recommended  *ServiceMatch        `json:"recommended,omitempty"`
	Alternatives []ServiceMatch       `json:"alternatives,omitempty"`
}

// Orchestrator drives one questionnaire submission end to end: prompt
// assembly, the model fallback chain, parsing and catalog matching.
type Orchestrator struct {
	generator   TextGenerator
	catalog     catalog.Catalog
	store       Store
	bus         *events.Bus
	metrics     *metrics.RecommendMetrics
	logger      *logging.Logger
	maxTokens   int32
	temperature float32
}

// OrchestratorConfig wires the orchestrator's collaborators.
type OrchestratorConfig struct {
	Generator   TextGenerator
	Catalog     catalog.Catalog
	Store       Store
	Bus         *events.Bus
	Metrics     *metrics.RecommendMetrics
	Logger      *logging.Logger
	MaxTokens   int32
	Temperature float32
}

// NewOrchestrator creates an orchestrator. Store, Bus and Metrics are
// optional; Generator and Catalog are not.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Generator == nil {
		panic("recommend: text generator cannot be nil")
	}
	if len(cfg.Catalog) == 0 {
		panic("recommend: catalog cannot be empty")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Orchestrator{
		generator:   cfg.Generator,
		catalog:     cfg.Catalog,
		store:       cfg.Store,
		bus:         cfg.Bus,
		metrics:     cfg.Metrics,
		logger:      logger,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}
}

var allDigitsRe = regexp.MustCompile(`^\d+$`)

// Submit turns ten rendered answers into a recommendation. On upstream
// failure the error is retryable and the caller keeps the answers, so the
// user can resubmit without re-answering.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, answers []RenderedAnswer) (*Result, error) {
	if len(answers) != answerCount {
		return nil, fmt.Errorf("recommend: expected %d rendered answers, got %d", answerCount, len(answers))
	}

	prompt := BuildPrompt(o.catalog, answers)
	text, model, err := o.generator.Generate(ctx, llm.Request{
		System:      []string{systemPrompt},
		Messages:    []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: prompt}},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		o.metrics.ObserveSubmission("upstream_unavailable")
		o.publish(events.LevelError, "El servicio de recomendaciones no está disponible, intenta de nuevo en unos minutos.")
		return nil, err
	}

	result := resolveText(text, o.catalog, o.metrics)
	result.Model = model

	if o.store != nil && sessionID != "" {
		if err := o.store.SavePrevious(ctx, sessionID, text); err != nil {
			// Persistence is best effort; the result is already in hand.
			o.logger.Warn("failed to store previous recommendation",
				"session_id", sessionID,
				"error", err,
			)
		}
	}

	o.metrics.ObserveSubmission("ok")
	o.publish(events.LevelSuccess, "Tu recomendación personalizada está lista.")
	return result, nil
}

// Resolve parses raw recommendation text and resolves every mentioned
// service against the catalog. Used when replaying a stored
// recommendation without resubmitting the questionnaire.
func Resolve(rawText string, entries catalog.Catalog) *Result {
	return resolveText(rawText, entries, nil)
}

func resolveText(rawText string, entries catalog.Catalog, m *metrics.RecommendMetrics) *Result {
	parsed := Parse(rawText)
	result := &Result{Raw: rawText, Parsed: parsed}

	if parsed.RecommendedService != "" {
		durationLabel := ""
		if allDigitsRe.MatchString(parsed.DurationMinutes) {
			durationLabel = parsed.DurationMinutes + " min"
		}
		result.Recommended = resolveMention(parsed.RecommendedService, durationLabel, entries, m)
	}
	for _, alt := range parsed.Alternatives {
		result.Alternatives = append(result.Alternatives, *resolveMention(alt, matching.ExtractDuration(alt), entries, m))
	}
	return result
}

// resolveMention matches one mentioned service text and builds the
// booking handoff when a catalog entry is found. Unresolved mentions keep
// their source text so the UI can render them inert.
func resolveMention(sourceText, durationLabel string, entries catalog.Catalog, m *metrics.RecommendMetrics) *ServiceMatch {
	match := matching.MatchFirst(sourceText, entries)
	if match == nil {
		m.ObserveMatch(matching.TierNone.String())
		return &ServiceMatch{SourceText: sourceText}
	}
	m.ObserveMatch(match.Tier.String())

	entry := match.Entry
	return &ServiceMatch{
		SourceText: sourceText,
		Entry:      &entry,
		Handoff:    NewHandoff(entry, durationLabel),
	}
}

func (o *Orchestrator) publish(level events.Level, message string) {
	if o.bus == nil {
		return
	}
	o.bus.Publish(events.Notification{Level: level, Message: message})
}
