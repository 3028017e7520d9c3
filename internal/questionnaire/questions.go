package questionnaire

// QuestionType determines the input shape of one questionnaire step.
type QuestionType string

const (
	TypeSingle   QuestionType = "single"
	TypeMultiple QuestionType = "multiple"
	TypeScale    QuestionType = "scale"
	TypeFreetext QuestionType = "freetext"
)

// Option is one selectable answer.
type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Question is one fixed questionnaire step. Questions are compiled into
// the binary and never change at runtime.
type Question struct {
	ID      int          `json:"id"`
	Prompt  string       `json:"prompt"`
	Type    QuestionType `json:"type"`
	Options []Option     `json:"options,omitempty"`
}

// Count is the fixed questionnaire length.
const Count = 10

var scaleOptions = []Option{
	{Text: "1", Value: "1"},
	{Text: "2", Value: "2"},
	{Text: "3", Value: "3"},
	{Text: "4", Value: "4"},
	{Text: "5", Value: "5"},
}

var questions = []Question{
	{
		ID:     1,
		Prompt: "¿Qué zonas del cuerpo quieres trabajar?",
		Type:   TypeMultiple,
		Options: []Option{
			{Text: "Espalda alta", Value: "espalda-alta"},
			{Text: "Espalda baja", Value: "espalda-baja"},
			{Text: "Cuello y hombros", Value: "cuello-hombros"},
			{Text: "Piernas", Value: "piernas"},
			{Text: "Pies", Value: "pies"},
			{Text: "Cuerpo completo", Value: "cuerpo-completo"},
		},
	},
	{
		ID:     2,
		Prompt: "¿Cuál es tu objetivo principal?",
		Type:   TypeSingle,
		Options: []Option{
			{Text: "Relajarme y desconectar", Value: "relajarme"},
			{Text: "Aliviar dolor muscular", Value: "aliviar-dolor"},
			{Text: "Recuperación deportiva", Value: "recuperacion"},
			{Text: "Dormir mejor", Value: "dormir-mejor"},
			{Text: "Consentirme con algo especial", Value: "consentirme"},
		},
	},
	{
		ID:      3,
		Prompt:  "¿Qué nivel de presión prefieres? (1 = muy suave, 5 = muy fuerte)",
		Type:    TypeScale,
		Options: scaleOptions,
	},
	{
		ID:      4,
		Prompt:  "¿Qué tan alto es tu nivel de estrés en este momento? (1 = bajo, 5 = muy alto)",
		Type:    TypeScale,
		Options: scaleOptions,
	},
	{
		ID:     5,
		Prompt: "¿Con qué frecuencia sientes molestias musculares?",
		Type:   TypeSingle,
		Options: []Option{
			{Text: "Todos los días", Value: "diario"},
			{Text: "Varias veces por semana", Value: "varias-semana"},
			{Text: "Ocasionalmente", Value: "ocasional"},
			{Text: "Casi nunca", Value: "casi-nunca"},
		},
	},
	{
		ID:     6,
		Prompt: "¿Qué te gustaría incluir en tu experiencia?",
		Type:   TypeMultiple,
		Options: []Option{
			{Text: "Piedras calientes", Value: "piedras-calientes"},
			{Text: "Aromaterapia", Value: "aromaterapia"},
			{Text: "Música relajante", Value: "musica"},
			{Text: "Nada en especial", Value: "nada-especial"},
		},
	},
	{
		ID:     7,
		Prompt: "¿Cuánto tiempo tienes para tu sesión?",
		Type:   TypeSingle,
		Options: []Option{
			{Text: "30 minutos", Value: "30"},
			{Text: "45 minutos", Value: "45"},
			{Text: "60 minutos", Value: "60"},
			{Text: "90 minutos o más", Value: "90"},
		},
	},
	{
		ID:     8,
		Prompt: "¿Has recibido masajes profesionales antes?",
		Type:   TypeSingle,
		Options: []Option{
			{Text: "Es mi primera vez", Value: "primera-vez"},
			{Text: "Algunas veces", Value: "algunas-veces"},
			{Text: "Frecuentemente", Value: "frecuentemente"},
		},
	},
	{
		ID:     9,
		Prompt: "¿Hay alguna condición de salud que debamos considerar?",
		Type:   TypeSingle,
		Options: []Option{
			{Text: "Embarazo", Value: "embarazo"},
			{Text: "Lesión reciente", Value: "lesion-reciente"},
			{Text: "Hipertensión", Value: "hipertension"},
			{Text: "Ninguna", Value: "ninguna"},
		},
	},
	{
		ID:     10,
		Prompt: "¿Algo más que quieras contarnos sobre lo que buscas?",
		Type:   TypeFreetext,
	},
}

// Questions returns the fixed question list in order.
func Questions() []Question {
	return questions
}

// optionText resolves a stored value back to its display text. Freetext
// answers pass through unchanged.
func optionText(q Question, value string) string {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt.Text
		}
	}
	return value
}

// hasOption reports whether value is one of the question's options.
func hasOption(q Question, value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
