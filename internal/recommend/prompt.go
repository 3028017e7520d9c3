package recommend

import (
	"fmt"
	"strings"

	"github.com/serenova-spa/recommend-platform/internal/catalog"
)

// RenderedAnswer is one questionnaire question with the user's answer
// already rendered to human-readable option text.
type RenderedAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

const systemPrompt = `Eres el terapeuta experto de Serenova Spa. Recomiendas exactamente un servicio del catálogo según las respuestas del cuestionario del cliente. Respondes siempre en español y respetas el formato pedido al pie de la letra.`

// BuildPrompt assembles the outbound prompt: the full catalog (names,
// categories, durations, prices) plus the rendered questionnaire answers
// and the label convention the parser expects on the way back.
func BuildPrompt(entries catalog.Catalog, answers []RenderedAnswer) string {
	var sb strings.Builder

	sb.WriteString("Catálogo de servicios disponibles:\n")
	for _, e := range entries {
		tiers := make([]string, 0, len(e.PricingTiers))
		for _, t := range e.PricingTiers {
			tiers = append(tiers, fmt.Sprintf("%s (%s)", t.Duration, t.Price))
		}
		fmt.Fprintf(&sb, "- %s | Categoría: %s | Duraciones: %s\n  %s\n",
			e.Name, e.Category, strings.Join(tiers, ", "), e.Description)
	}

	sb.WriteString("\nRespuestas del cuestionario:\n")
	for i, a := range answers {
		fmt.Fprintf(&sb, "%d. %s\n   Respuesta: %s\n", i+1, a.Question, a.Answer)
	}

	sb.WriteString(`
Con base en el catálogo y las respuestas, responde usando exactamente este formato:
Servicio recomendado: <nombre exacto del servicio del catálogo>
Categoría: <categoría del servicio>
Duración sugerida: <número> minutos
Premium: <sí o no>
Motivo de la recomendación: <explicación breve y cálida>
Opciones alternativas:
- <otro servicio del catálogo>
- <otro servicio del catálogo>
Alertas: <precauciones relevantes, o "ninguna">
`)

	return sb.String()
}
