package recommend

import (
	"regexp"
	"strings"
)

// ParsedRecommendation is the structured view of a free-form model reply.
// Every field is optional: the model is instructed to follow a
// label:value convention but nothing guarantees it does, so absent labels
// simply leave fields empty and the caller renders what it got.
type ParsedRecommendation struct {
	RecommendedService string   `json:"recommended_service,omitempty"`
	Category           string   `json:"category,omitempty"`
	DurationMinutes    string   `json:"duration_minutes,omitempty"`
	IsPremium          *bool    `json:"is_premium,omitempty"`
	Reason             string   `json:"reason,omitempty"`
	Alternatives       []string `json:"alternatives,omitempty"`
	Alert              string   `json:"alert,omitempty"`
}

const (
	labelService      = "servicio recomendado:"
	labelCategory     = "categoría:"
	labelDuration     = "duración sugerida:"
	labelPremium      = "premium:"
	labelReason       = "motivo de la recomendación"
	labelAlternatives = "opciones alternativas"
	labelAlerts       = "alertas"
	labelPrecautions  = "precauciones"
)

var digitsRe = regexp.MustCompile(`\d+`)

// isLabelLine reports whether the lowercased line starts a recognized
// labeled section. Used to stop multi-line reason collection.
func isLabelLine(lower string) bool {
	for _, label := range []string{
		labelService, labelCategory, labelDuration, labelPremium,
		labelReason, labelAlternatives, labelAlerts, labelPrecautions,
	} {
		if strings.Contains(lower, label) {
			return true
		}
	}
	return false
}

// afterColon returns the trimmed text after the first colon, or "".
func afterColon(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(line[idx+1:])
	}
	return ""
}

// Parse extracts structured fields from the raw text a generative model
// returned. It never fails; in the worst case every field stays empty.
func Parse(rawText string) ParsedRecommendation {
	var out ParsedRecommendation

	var lines []string
	for _, line := range strings.Split(rawText, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, labelService):
			out.RecommendedService = afterColon(line)

		case strings.Contains(lower, labelCategory):
			out.Category = afterColon(line)

		case strings.Contains(lower, labelDuration):
			value := afterColon(line)
			if digits := digitsRe.FindString(value); digits != "" {
				out.DurationMinutes = digits
			} else {
				out.DurationMinutes = value
			}

		case strings.Contains(lower, labelPremium):
			value := afterColon(line)
			premium := isAffirmative(value)
			out.IsPremium = &premium

		case strings.Contains(lower, labelAlternatives):
			var alts []string
			j := i + 1
			for ; j < len(lines); j++ {
				stripped, ok := stripListMarker(lines[j])
				if !ok {
					break
				}
				if name := truncateAlternative(stripped); name != "" {
					alts = append(alts, name)
				}
			}
			out.Alternatives = append(out.Alternatives, alts...)
			i = j - 1

		case strings.Contains(lower, labelReason):
			reason := afterColon(line)
			if reason == "" {
				// Label on its own line: the reason continues on the
				// following lines until another section starts.
				var parts []string
				j := i + 1
				for ; j < len(lines); j++ {
					if isLabelLine(strings.ToLower(lines[j])) {
						break
					}
					parts = append(parts, lines[j])
				}
				reason = strings.Join(parts, " ")
				i = j - 1
			}
			out.Reason = reason

		case strings.Contains(lower, labelAlerts), strings.Contains(lower, labelPrecautions):
			if value := afterColon(line); value != "" {
				out.Alert = value
			}
		}
	}

	return out
}

// stripListMarker removes a leading "-" or "*" bullet. The second return
// is false when the line is not a list item.
func stripListMarker(line string) (string, bool) {
	if after, ok := strings.CutPrefix(line, "-"); ok {
		return strings.TrimSpace(after), true
	}
	if after, ok := strings.CutPrefix(line, "*"); ok {
		return strings.TrimSpace(after), true
	}
	return "", false
}

// truncateAlternative cuts an alternative at the first ":" or "(" so
// "Masaje Deportivo: ideal para..." keeps just the service name.
func truncateAlternative(s string) string {
	if idx := strings.IndexAny(s, ":("); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// isAffirmative interprets the value of the Premium label.
func isAffirmative(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return strings.HasPrefix(v, "sí") || v == "si" || strings.HasPrefix(v, "si ") ||
		strings.HasPrefix(v, "yes") || strings.HasPrefix(v, "true")
}
