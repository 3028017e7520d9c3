// Package catalog holds the static, read-only list of bookable services.
// The catalog is embedded in the binary, loaded once at startup and never
// mutated; its order is stable and meaningful (matching ties resolve to
// the first entry).
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed catalog.json
var catalogJSON []byte

// PricingTier is one duration/price option for a service.
type PricingTier struct {
	Duration string `json:"duration"`
	Price    string `json:"price"`
}

// Entry represents one bookable service.
type Entry struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	Description  string        `json:"description"`
	Image        string        `json:"image"`
	PricingTiers []PricingTier `json:"pricing_tiers"`
}

// Catalog is an ordered, immutable list of entries.
type Catalog []Entry

// Load parses the embedded catalog and validates its invariants.
func Load() (Catalog, error) {
	var entries Catalog
	if err := json.Unmarshal(catalogJSON, &entries); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse embedded catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog: embedded catalog is empty")
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("catalog: entry missing id or name: %+v", e)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate entry id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
		if len(e.PricingTiers) == 0 {
			return nil, fmt.Errorf("catalog: entry %q has no pricing tiers", e.ID)
		}
	}
	return entries, nil
}

// ByID returns the entry with the given id, or nil.
func (c Catalog) ByID(id string) *Entry {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}
