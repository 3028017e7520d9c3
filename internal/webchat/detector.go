package webchat

import (
	"github.com/serenova-spa/recommend-platform/internal/catalog"
	"github.com/serenova-spa/recommend-platform/internal/matching"
)

// BookableService is a booking affordance attached to a chat reply: the
// widget renders one "reservar" chip per detected service.
type BookableService struct {
	ServiceID     string                `json:"service_id"`
	ServiceName   string                `json:"service_name"`
	ServiceImage  string                `json:"service_image,omitempty"`
	PricingTiers  []catalog.PricingTier `json:"pricing_tiers"`
	DurationLabel string                `json:"duration_label,omitempty"`
}

// Detect scans free-form text for catalog service mentions. Each matched
// entry appears once, in catalog order. A duration mentioned anywhere in
// the text ("60 minutos") is attached to every detected service, since a
// chat reply rarely discusses more than one.
func Detect(text string, entries catalog.Catalog) []BookableService {
	matched := matching.MatchAll(text, entries)
	if len(matched) == 0 {
		return nil
	}

	duration := matching.ExtractDuration(text)

	services := make([]BookableService, 0, len(matched))
	for _, e := range matched {
		services = append(services, BookableService{
			ServiceID:     e.ID,
			ServiceName:   e.Name,
			ServiceImage:  e.Image,
			PricingTiers:  e.PricingTiers,
			DurationLabel: duration,
		})
	}
	return services
}
