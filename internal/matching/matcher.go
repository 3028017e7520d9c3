// Package matching maps free-form text fragments to catalog entries.
//
// Recommendation text and chat assistant replies both mention services in
// loose Spanish phrasing ("masaje con piedras", "el de cuatro manos"), so
// resolution runs through ranked tiers: exact, containment, keyword
// overlap, then a hand-tuned alias table. The whole package is pure; the
// same tier logic backs both the first-match and find-all callers.
package matching

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/serenova-spa/recommend-platform/internal/catalog"
)

// Tier identifies which matching strategy produced a hit.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierContainment
	TierKeyword
	TierAlias
)

// String returns the metric label for the tier.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierContainment:
		return "containment"
	case TierKeyword:
		return "keyword"
	case TierAlias:
		return "alias"
	default:
		return "none"
	}
}

// Detected is a resolved mention of a catalog service.
type Detected struct {
	Entry      catalog.Entry
	SourceText string
	Tier       Tier
}

// aliases maps catalog ids to substrings that commonly stand in for the
// canonical name. Tuned against the current catalog; there is no measured
// corpus behind these, so treat additions as guesses to be revisited.
var aliases = map[string][]string{
	"piedras-volcanicas": {"piedras"},
	"masaje-4-manos":     {"cuatro manos"},
	"craneo-facial":      {"craneal", "craneo"},
	"drenaje-linfatico":  {"drenaje"},
	"reflexologia-podal": {"reflexolog"},
}

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	durationRe      = regexp.MustCompile(`(?i)(\d+)\s*minuto`)
)

// Normalize reduces a service name or mention to comparable form:
// lowercase, without the "masaje" prefix word, parentheticals, or any
// trailing colon remainder, with whitespace collapsed.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if after, ok := strings.CutPrefix(s, "masaje"); ok {
		if after == "" || strings.HasPrefix(after, " ") || strings.HasPrefix(after, "\t") {
			s = strings.TrimLeft(after, " \t")
		}
	}
	s = parentheticalRe.ReplaceAllString(s, "")
	if idx := strings.Index(s, ":"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// keywords tokenizes a normalized string: whitespace-split, tokens longer
// than 3 runes, non-letter runes stripped from each token.
func keywords(normalized string) []string {
	var out []string
	for _, tok := range strings.Fields(normalized) {
		if len([]rune(tok)) <= 3 {
			continue
		}
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) {
				return r
			}
			return -1
		}, tok)
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// matchTier reports the first tier under which candidate resolves to the
// entry, or TierNone. candidate must already be normalized.
func matchTier(candidate string, e catalog.Entry) Tier {
	name := Normalize(e.Name)

	if candidate != "" && candidate == name {
		return TierExact
	}

	if candidate != "" && name != "" &&
		(strings.Contains(candidate, name) || strings.Contains(name, candidate)) {
		return TierContainment
	}

	catalogKeywords := keywords(name)
	if k := len(catalogKeywords); k > 0 {
		candidateTokens := keywords(candidate)
		m := 0
		for _, kw := range catalogKeywords {
			for _, tok := range candidateTokens {
				if tok == kw || strings.Contains(tok, kw) {
					m++
					break
				}
			}
		}
		// Require at least half the catalog keywords, rounded up.
		if m > 0 && m >= (k+1)/2 {
			return TierKeyword
		}
	}

	for _, alias := range aliases[e.ID] {
		if strings.Contains(candidate, alias) {
			return TierAlias
		}
	}

	return TierNone
}

// MatchFirst resolves a candidate phrase to at most one catalog entry.
// Tiers are ranked; within a tier the first catalog entry wins, so the
// catalog's order must be stable.
func MatchFirst(candidateText string, entries catalog.Catalog) *Detected {
	candidate := Normalize(candidateText)
	if candidate == "" {
		return nil
	}

	best := Detected{Tier: TierNone}
	for _, e := range entries {
		tier := matchTier(candidate, e)
		if tier == TierNone {
			continue
		}
		if best.Tier == TierNone || tier < best.Tier {
			best = Detected{Entry: e, SourceText: candidateText, Tier: tier}
		}
	}
	if best.Tier == TierNone {
		return nil
	}
	return &best
}

// MatchAll finds every catalog entry mentioned anywhere in a longer text,
// in catalog order, deduplicated by id. Used to surface booking
// affordances under chat assistant replies.
func MatchAll(text string, entries catalog.Catalog) []catalog.Entry {
	candidate := Normalize(text)
	if candidate == "" {
		return nil
	}

	var out []catalog.Entry
	seen := make(map[string]struct{})
	for _, e := range entries {
		if matchTier(candidate, e) == TierNone {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// ExtractDuration pulls "<n> min" from text mentioning a minute count
// ("90 minutos", "45minutos"). Returns "" when no duration is present.
func ExtractDuration(text string) string {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + " min"
}
