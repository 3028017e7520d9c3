package recommend

import "github.com/serenova-spa/recommend-platform/internal/catalog"

// Handoff is the sole data contract this core exposes to the downstream
// booking UI once a catalog entry has been resolved.
type Handoff struct {
	ServiceID             string                `json:"service_id"`
	ServiceName           string                `json:"service_name"`
	ServiceImage          string                `json:"service_image"`
	PricingTiers          []catalog.PricingTier `json:"pricing_tiers"`
	SelectedDurationLabel string                `json:"selected_duration_label,omitempty"`
}

// NewHandoff builds the booking payload for a resolved entry. The
// duration label is optional; pass "" when no duration was mentioned.
func NewHandoff(e catalog.Entry, selectedDurationLabel string) *Handoff {
	return &Handoff{
		ServiceID:             e.ID,
		ServiceName:           e.Name,
		ServiceImage:          e.Image,
		PricingTiers:          e.PricingTiers,
		SelectedDurationLabel: selectedDurationLabel,
	}
}
