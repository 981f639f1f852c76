package config

import (
	"testing"
)

func TestDefaultFestivalConfig(t *testing.T) {
	cfg := DefaultFestivalConfig()

	wantLimits := map[string]int{
		"sahithyolsavam":      27,
		"chithrolsavam":       9,
		"sangeetholsavam":     17,
		"nritholsavam":        12,
		"drishyanatakolsavam": 8,
	}
	for category, want := range wantLimits {
		got, ok := cfg.CategoryLimit(category)
		if !ok || got != want {
			t.Errorf("CategoryLimit(%q) = %d, %v; want %d, true", category, got, ok, want)
		}
	}

	if cfg.RestrictedCategory != "drishyanatakolsavam" {
		t.Errorf("unexpected restricted category: %q", cfg.RestrictedCategory)
	}
	if len(cfg.RestrictedItems) != 4 {
		t.Errorf("expected 4 restricted items, got %d", len(cfg.RestrictedItems))
	}
	if cfg.MaxRestricted != 2 || cfg.SingleItemLimit != 4 || cfg.GroupItemLimit != 2 {
		t.Errorf("unexpected limits: %+v", cfg)
	}
}

func TestCategoryLimitCaseInsensitive(t *testing.T) {
	cfg := DefaultFestivalConfig()

	for _, name := range []string{"Sahithyolsavam", "SAHITHYOLSAVAM", "sahithyolsavam"} {
		if limit, ok := cfg.CategoryLimit(name); !ok || limit != 27 {
			t.Errorf("CategoryLimit(%q) = %d, %v; want 27, true", name, limit, ok)
		}
	}

	if _, ok := cfg.CategoryLimit("unknown"); ok {
		t.Error("expected unknown category to be unlimited")
	}
}

func TestIsRestrictedItemExactMatch(t *testing.T) {
	cfg := DefaultFestivalConfig()

	if !cfg.IsRestrictedItem("Natakam (Malayalam)") {
		t.Error("expected Natakam (Malayalam) to be restricted")
	}
	// Matching is exact, not case-folded.
	if cfg.IsRestrictedItem("natakam (malayalam)") {
		t.Error("expected lowercase variant to not match")
	}
	if cfg.IsRestrictedItem("Mime") {
		t.Error("expected Mime to be unrestricted")
	}
}

func TestLoadFestivalConfigDefault(t *testing.T) {
	t.Setenv("FESTIVAL_CONFIG", "")

	cfg, err := LoadFestivalConfig()
	if err != nil {
		t.Fatalf("LoadFestivalConfig failed: %v", err)
	}
	if limit, _ := cfg.CategoryLimit("sahithyolsavam"); limit != 27 {
		t.Errorf("expected defaults without env override, got limit %d", limit)
	}
}

func TestLoadFestivalConfigPartialOverride(t *testing.T) {
	t.Setenv("FESTIVAL_CONFIG", `{"category_limits":{"music":5},"max_restricted":3}`)

	cfg, err := LoadFestivalConfig()
	if err != nil {
		t.Fatalf("LoadFestivalConfig failed: %v", err)
	}

	// Overridden fields replace the defaults.
	if limit, ok := cfg.CategoryLimit("music"); !ok || limit != 5 {
		t.Errorf("expected overridden music limit 5, got %d, %v", limit, ok)
	}
	if _, ok := cfg.CategoryLimit("sahithyolsavam"); ok {
		t.Error("expected category map replaced wholesale")
	}
	if cfg.MaxRestricted != 3 {
		t.Errorf("expected MaxRestricted 3, got %d", cfg.MaxRestricted)
	}

	// Untouched fields keep their defaults.
	if cfg.RestrictedCategory != "drishyanatakolsavam" {
		t.Errorf("expected default restricted category, got %q", cfg.RestrictedCategory)
	}
	if cfg.SingleItemLimit != 4 || cfg.GroupItemLimit != 2 {
		t.Errorf("expected default per-student limits, got %+v", cfg)
	}
}

func TestLoadFestivalConfigInvalidJSON(t *testing.T) {
	t.Setenv("FESTIVAL_CONFIG", "{not json")

	if _, err := LoadFestivalConfig(); err == nil {
		t.Fatal("expected error for invalid FESTIVAL_CONFIG")
	}
}
