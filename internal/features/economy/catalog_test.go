package economy

import (
	"testing"

	"serotonyl.ru/gymshots/internal/features/streak"
	"serotonyl.ru/gymshots/internal/features/workouts"
)

func TestCatalogThresholdsMatchTiers(t *testing.T) {
	if len(Catalog) != 23 {
		t.Fatalf("catalog has %d banners, want 23", len(Catalog))
	}

	seen := make(map[string]bool)
	for _, b := range Catalog {
		if seen[b.ID] {
			t.Fatalf("duplicate banner id %q", b.ID)
		}
		seen[b.ID] = true

		tier, ok := streak.TierByName(b.Tier)
		if !ok {
			t.Fatalf("banner %s references unknown tier %q", b.ID, b.Tier)
		}
		if tier.Threshold != b.TierThreshold {
			t.Fatalf("banner %s threshold %d != tier %s threshold %d", b.ID, b.TierThreshold, tier.Name, tier.Threshold)
		}
		if len(b.Cost) == 0 {
			t.Fatalf("banner %s must have a cost", b.ID)
		}
		for c := range b.Cost {
			if _, ok := workouts.Lookup(c); !ok {
				t.Fatalf("banner %s cost uses unknown category %q", b.ID, c)
			}
		}
	}
	if seen[DefaultBannerID] {
		t.Fatalf("default banner must not be part of the catalog")
	}
}

func TestBannerByID(t *testing.T) {
	if b := BannerByID("novice-sky"); b.Name != "Sky Blue" || b.Cost[workouts.Leg] != 3 {
		t.Fatalf("unexpected banner %+v", b)
	}
	if b := BannerByID("default"); !b.IsDefault() || len(b.Cost) != 0 || b.TierThreshold != 0 {
		t.Fatalf("default banner = %+v", b)
	}
	if b := BannerByID("missing"); !b.IsDefault() {
		t.Fatalf("unknown id must resolve to default, got %q", b.ID)
	}
	if _, ok := Lookup("missing"); ok {
		t.Fatalf("Lookup must report unknown ids")
	}
}

func TestBannersByTier(t *testing.T) {
	got := BannersByTier("Intermediate")
	want := []string{"intermediate-ocean", "intermediate-wave", "intermediate-sapphire"}
	if len(got) != len(want) {
		t.Fatalf("got %d banners, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("banner %d = %q, want %q", i, got[i].ID, want[i])
		}
	}
	if len(BannersByTier("Beginner")) != 0 {
		t.Fatalf("Beginner tier has no catalog banners")
	}
}

func TestAvailableBanners(t *testing.T) {
	cases := []struct {
		streak int
		want   int
	}{
		{0, 0},
		{1, 2},
		{5, 2},
		{6, 5},
		{34, 11},
		{299, 21},
		{300, 23},
	}
	for _, c := range cases {
		if got := len(AvailableBanners(c.streak)); got != c.want {
			t.Fatalf("AvailableBanners(%d) = %d banners, want %d", c.streak, got, c.want)
		}
	}
}

func TestTierUnlocked(t *testing.T) {
	if TierUnlocked("Novice", 0) {
		t.Fatalf("Novice must be locked at streak 0")
	}
	if !TierUnlocked("Novice", 1) || TierUnlocked("Intermediate", 5) {
		t.Fatalf("unexpected unlock state")
	}
}

func TestGroupByTier(t *testing.T) {
	groups := GroupByTier()
	if len(groups) != 9 {
		t.Fatalf("got %d groups, want 9 (every tier except Beginner)", len(groups))
	}

	total := 0
	for i, g := range groups {
		if i > 0 && g.Tier.Threshold <= groups[i-1].Tier.Threshold {
			t.Fatalf("groups not ascending at %d", i)
		}
		for _, b := range g.Banners {
			if b.Tier != g.Tier.Name {
				t.Fatalf("banner %s grouped under %s", b.ID, g.Tier.Name)
			}
		}
		total += len(g.Banners)
	}
	if total != len(Catalog) {
		t.Fatalf("grouped %d banners, want %d", total, len(Catalog))
	}
	if groups[0].Banners[0].ID != "novice-sky" || groups[0].Banners[1].ID != "novice-cloud" {
		t.Fatalf("catalog order not kept inside tier")
	}
}
