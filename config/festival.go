package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FestivalConfig holds every quota rule the eligibility checks run against.
// It is built once at startup and injected into the services that need it,
// so tests can supply arbitrary quota regimes.
type FestivalConfig struct {
	// CategoryLimits maps a lowercase category name to the maximum number
	// of teams a college may register in it. Categories absent from the
	// map are unlimited.
	CategoryLimits map[string]int `json:"category_limits"`

	// RestrictedCategory is the category whose restricted items carry an
	// extra sub-limit on top of the category quota.
	RestrictedCategory string `json:"restricted_category"`

	// RestrictedItems are the exact item names counted against MaxRestricted.
	RestrictedItems []string `json:"restricted_items"`

	// MaxRestricted caps how many restricted-item teams a college may hold.
	MaxRestricted int `json:"max_restricted"`

	// SingleItemLimit caps how many single-type teams one student may join.
	SingleItemLimit int `json:"single_item_limit"`

	// GroupItemLimit caps how many group-type teams one student may join.
	GroupItemLimit int `json:"group_item_limit"`
}

// DefaultFestivalConfig returns the production quota regime.
func DefaultFestivalConfig() FestivalConfig {
	return FestivalConfig{
		CategoryLimits: map[string]int{
			"sahithyolsavam":      27,
			"chithrolsavam":       9,
			"sangeetholsavam":     17,
			"nritholsavam":        12,
			"drishyanatakolsavam": 8,
		},
		RestrictedCategory: "drishyanatakolsavam",
		RestrictedItems: []string{
			"Natakam (Malayalam)",
			"Natakam (English)",
			"Natakam (Hindi)",
			"Natakam (Kannada)",
		},
		MaxRestricted:   2,
		SingleItemLimit: 4,
		GroupItemLimit:  2,
	}
}

// LoadFestivalConfig returns the default config, overridden by the
// FESTIVAL_CONFIG env variable (JSON) when set. Partial overrides are
// merged on top of the defaults.
func LoadFestivalConfig() (FestivalConfig, error) {
	cfg := DefaultFestivalConfig()

	raw := os.Getenv("FESTIVAL_CONFIG")
	if raw == "" {
		return cfg, nil
	}

	var override FestivalConfig
	if err := json.Unmarshal([]byte(raw), &override); err != nil {
		return cfg, fmt.Errorf("invalid FESTIVAL_CONFIG: %w", err)
	}

	if override.CategoryLimits != nil {
		cfg.CategoryLimits = override.CategoryLimits
	}
	if override.RestrictedCategory != "" {
		cfg.RestrictedCategory = override.RestrictedCategory
	}
	if override.RestrictedItems != nil {
		cfg.RestrictedItems = override.RestrictedItems
	}
	if override.MaxRestricted > 0 {
		cfg.MaxRestricted = override.MaxRestricted
	}
	if override.SingleItemLimit > 0 {
		cfg.SingleItemLimit = override.SingleItemLimit
	}
	if override.GroupItemLimit > 0 {
		cfg.GroupItemLimit = override.GroupItemLimit
	}

	return cfg, nil
}

// CategoryLimit returns the team limit for a category, case-insensitive.
// The second value is false when the category is unlimited.
func (c FestivalConfig) CategoryLimit(category string) (int, bool) {
	limit, ok := c.CategoryLimits[strings.ToLower(category)]
	return limit, ok
}

// IsRestrictedItem reports whether an item name belongs to the restricted
// subset. Names match exactly.
func (c FestivalConfig) IsRestrictedItem(name string) bool {
	for _, n := range c.RestrictedItems {
		if n == name {
			return true
		}
	}
	return false
}
