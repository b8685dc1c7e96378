// Package economy — catalog.go содержит каталог баннеров.
// Баннер открывается рангом (стрик не ниже порога) и покупается
// «валютой» тренировок: нужно накопить посты нужных категорий.
package economy

import (
	"sort"

	"serotonyl.ru/gymshots/internal/features/streak"
	"serotonyl.ru/gymshots/internal/features/workouts"
	"serotonyl.ru/gymshots/internal/store"
)

// DefaultBannerID — баннер, которым владеет каждый пользователь.
const DefaultBannerID = store.DefaultBannerID

// Rarity — редкость баннера.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
	RarityMythic    Rarity = "Mythic"
)

// Cost — цена баннера: сколько постов каждой категории нужно накопить.
type Cost map[workouts.Category]int

// Banner — косметическое украшение профиля.
type Banner struct {
	ID            string
	Name          string
	Description   string
	Tier          string // Название ранга, которым открывается баннер
	TierThreshold int    // Совпадает с порогом ранга Tier
	Cost          Cost
	Rarity        Rarity
	Gradient      []string
}

// IsDefault — это стартовый баннер.
func (b Banner) IsDefault() bool {
	return b.ID == DefaultBannerID
}

// DefaultBanner — стартовый баннер: бесплатный, без порога.
var DefaultBanner = Banner{
	ID:            DefaultBannerID,
	Name:          "Starter",
	Description:   "Your journey begins",
	Tier:          "Beginner",
	TierThreshold: 0,
	Cost:          Cost{},
	Rarity:        RarityCommon,
	Gradient:      []string{"#374151", "#4B5563"},
}

// Catalog — все баннеры в порядке объявления.
var Catalog = []Banner{
	// Novice (стрик 1+)
	{
		ID: "novice-sky", Name: "Sky Blue", Description: "Clear blue skies ahead",
		Tier: "Novice", TierThreshold: 1, Rarity: RarityCommon,
		Cost:     Cost{workouts.Leg: 3},
		Gradient: []string{"#4a5568", "#6b7fa8", "#b0c3d9", "#e0f0ff"},
	},
	{
		ID: "novice-cloud", Name: "Cloud Nine", Description: "New beginnings",
		Tier: "Novice", TierThreshold: 1, Rarity: RarityCommon,
		Cost:     Cost{workouts.Push: 3},
		Gradient: []string{"#8aa5c0", "#b0c3d9", "#d5e8ff", "#ffffff"},
	},

	// Intermediate (стрик 6+)
	{
		ID: "intermediate-ocean", Name: "Ocean Breeze", Description: "Deep sea vibes",
		Tier: "Intermediate", TierThreshold: 6, Rarity: RarityCommon,
		Cost:     Cost{workouts.Pull: 5, workouts.Cardio: 2},
		Gradient: []string{"#1a2f4a", "#2d5570", "#5e98d9", "#a0d0ff"},
	},
	{
		ID: "intermediate-wave", Name: "Wave Rider", Description: "Ride the momentum",
		Tier: "Intermediate", TierThreshold: 6, Rarity: RarityCommon,
		Cost:     Cost{workouts.Leg: 5, workouts.Push: 2},
		Gradient: []string{"#5e98d9", "#7fb3ea", "#90c5ff", "#d0e8ff"},
	},
	{
		ID: "intermediate-sapphire", Name: "Sapphire Flow", Description: "Precious progress",
		Tier: "Intermediate", TierThreshold: 6, Rarity: RarityCommon,
		Cost:     Cost{workouts.FullBody: 4, workouts.Pull: 3},
		Gradient: []string{"#203850", "#3d6890", "#5e98d9", "#70a8e9"},
	},

	// Advanced (стрик 15+)
	{
		ID: "advanced-electric", Name: "Electric Blue", Description: "High voltage energy",
		Tier: "Advanced", TierThreshold: 15, Rarity: RarityRare,
		Cost:     Cost{workouts.Push: 7, workouts.Leg: 5},
		Gradient: []string{"#0a0a1f", "#1a2850", "#4b69ff", "#7d95ff", "#afc8ff"},
	},
	{
		ID: "advanced-neon", Name: "Neon Glow", Description: "Bright and bold",
		Tier: "Advanced", TierThreshold: 15, Rarity: RarityRare,
		Cost:     Cost{workouts.Cardio: 8, workouts.BroSplit: 4},
		Gradient: []string{"#4b69ff", "#6c8aff", "#8daeff", "#b0d5ff"},
	},
	{
		ID: "advanced-azure", Name: "Azure Strike", Description: "Swift and powerful",
		Tier: "Advanced", TierThreshold: 15, Rarity: RarityRare,
		Cost:     Cost{workouts.Pull: 7, workouts.FullBody: 5},
		Gradient: []string{"#0d1b3a", "#2d4590", "#4b69ff", "#6080ff"},
	},

	// Expert (стрик 31+)
	{
		ID: "expert-royal", Name: "Royal Purple", Description: "Fit for royalty",
		Tier: "Expert", TierThreshold: 31, Rarity: RarityRare,
		Cost:     Cost{workouts.Leg: 10, workouts.Push: 8, workouts.Pull: 5},
		Gradient: []string{"#000000", "#1a0a2e", "#4a1f7a", "#8847ff", "#a867ff"},
	},
	{
		ID: "expert-violet", Name: "Violet Storm", Description: "Mystic power",
		Tier: "Expert", TierThreshold: 31, Rarity: RarityRare,
		Cost:     Cost{workouts.FullBody: 10, workouts.Leg: 8},
		Gradient: []string{"#0f0520", "#3d1f60", "#7537df", "#8847ff", "#c890ff"},
	},
	{
		ID: "expert-amethyst", Name: "Amethyst Glow", Description: "Precious and powerful",
		Tier: "Expert", TierThreshold: 31, Rarity: RarityRare,
		Cost:     Cost{workouts.Cardio: 12, workouts.Push: 7},
		Gradient: []string{"#1a0a35", "#5020a0", "#8847ff", "#b880ff", "#e0b0ff"},
	},

	// Master (стрик 50+)
	{
		ID: "master-magenta", Name: "Magenta Surge", Description: "Electric intensity",
		Tier: "Master", TierThreshold: 50, Rarity: RarityEpic,
		Cost:     Cost{workouts.Pull: 15, workouts.Push: 12, workouts.Leg: 10},
		Gradient: []string{"#1a0520", "#5a1570", "#a020b0", "#d32ce6", "#ff60ff"},
	},
	{
		ID: "master-fuchsia", Name: "Fuchsia Blast", Description: "Vibrant power",
		Tier: "Master", TierThreshold: 50, Rarity: RarityEpic,
		Cost:     Cost{workouts.BroSplit: 15, workouts.Cardio: 10, workouts.Leg: 8},
		Gradient: []string{"#d32ce6", "#e050f0", "#ff70ff", "#ffa0ff"},
	},
	{
		ID: "master-rose", Name: "Electric Rose", Description: "Beauty and strength",
		Tier: "Master", TierThreshold: 50, Rarity: RarityEpic,
		Cost:     Cost{workouts.FullBody: 15, workouts.Pull: 12},
		Gradient: []string{"#0a0015", "#3a0855", "#9018c0", "#d32ce6", "#ff5ce6"},
	},

	// Elite (стрик 76+)
	{
		ID: "elite-crimson", Name: "Crimson Rage", Description: "Fierce determination",
		Tier: "Elite", TierThreshold: 76, Rarity: RarityEpic,
		Cost:     Cost{workouts.Leg: 20, workouts.Push: 15, workouts.BroSplit: 10},
		Gradient: []string{"#1a0000", "#4a0a0a", "#8a1a1a", "#eb4b4b", "#ff7070"},
	},
	{
		ID: "elite-scarlet", Name: "Scarlet Force", Description: "Unstoppable power",
		Tier: "Elite", TierThreshold: 76, Rarity: RarityEpic,
		Cost:     Cost{workouts.Pull: 20, workouts.FullBody: 15, workouts.Cardio: 10},
		Gradient: []string{"#2a0505", "#6a1515", "#ba2b2b", "#eb4b4b", "#ff8888"},
	},
	{
		ID: "elite-ruby", Name: "Ruby Inferno", Description: "Burning passion",
		Tier: "Elite", TierThreshold: 76, Rarity: RarityEpic,
		Cost:     Cost{workouts.FullBody: 20, workouts.Leg: 15, workouts.Push: 10},
		Gradient: []string{"#eb4b4b", "#ff5b5b", "#ff8080", "#ffa0a0"},
	},

	// Champion (стрик 100+)
	{
		ID: "champion-gold", Name: "Golden Glory", Description: "Champion status",
		Tier: "Champion", TierThreshold: 100, Rarity: RarityLegendary,
		Cost:     Cost{workouts.Cardio: 25, workouts.Push: 20, workouts.Pull: 15},
		Gradient: []string{"#1a1208", "#4a3018", "#8a6028", "#b28a33", "#d2aa53", "#f2ca73"},
	},
	{
		ID: "champion-bronze", Name: "Bronze Warrior", Description: "Battle tested",
		Tier: "Champion", TierThreshold: 100, Rarity: RarityLegendary,
		Cost:     Cost{workouts.BroSplit: 25, workouts.Leg: 20, workouts.FullBody: 15},
		Gradient: []string{"#2a1a05", "#6a4a15", "#a27a25", "#b28a33", "#c2aa53"},
	},

	// Legend (стрик 150+)
	{
		ID: "legend-lime", Name: "Lime Lightning", Description: "Electric legend",
		Tier: "Legend", TierThreshold: 150, Rarity: RarityLegendary,
		Cost:     Cost{workouts.Pull: 30, workouts.Push: 30, workouts.Leg: 30, workouts.Cardio: 20},
		Gradient: []string{"#0a1505", "#2a4515", "#6a9530", "#ade55c", "#d0ff88"},
	},
	{
		ID: "legend-neon", Name: "Neon Legend", Description: "Legendary glow",
		Tier: "Legend", TierThreshold: 150, Rarity: RarityLegendary,
		Cost:     Cost{workouts.FullBody: 35, workouts.Leg: 30, workouts.Push: 25},
		Gradient: []string{"#1a2510", "#5a8535", "#8dc540", "#ade55c", "#e0ff90"},
	},

	// Immortal (стрик 300+)
	{
		ID: "immortal-divine", Name: "Divine Radiance", Description: "God-tier achieved",
		Tier: "Immortal", TierThreshold: 300, Rarity: RarityMythic,
		Cost:     Cost{workouts.Pull: 50, workouts.Push: 50, workouts.Leg: 50, workouts.FullBody: 40, workouts.Cardio: 30, workouts.BroSplit: 30},
		Gradient: []string{"#2a2510", "#7a6520", "#caa830", "#fff34f", "#ffff80", "#fffff0"},
	},
	{
		ID: "immortal-eternal", Name: "Eternal Light", Description: "Forever shining",
		Tier: "Immortal", TierThreshold: 300, Rarity: RarityMythic,
		Cost:     Cost{workouts.Leg: 60, workouts.Push: 50, workouts.BroSplit: 40, workouts.Cardio: 35},
		Gradient: []string{"#1a1a08", "#5a5a20", "#baba38", "#fff34f", "#ffff70"},
	},
}

// Lookup ищет баннер по ID. "default" тоже находится.
func Lookup(id string) (Banner, bool) {
	if id == DefaultBannerID {
		return DefaultBanner, true
	}
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Banner{}, false
}

// BannerByID возвращает баннер по ID, для неизвестного ID — DefaultBanner.
// Используется для отображения надетого баннера.
func BannerByID(id string) Banner {
	if b, ok := Lookup(id); ok {
		return b
	}
	return DefaultBanner
}

// BannersByTier возвращает баннеры ранга в порядке каталога.
func BannersByTier(tierName string) []Banner {
	var out []Banner
	for _, b := range Catalog {
		if b.Tier == tierName {
			out = append(out, b)
		}
	}
	return out
}

// AvailableBanners возвращает баннеры, открытые при стрике currentStreak.
// Цена не учитывается.
func AvailableBanners(currentStreak int) []Banner {
	var out []Banner
	for _, b := range Catalog {
		if currentStreak >= b.TierThreshold {
			out = append(out, b)
		}
	}
	return out
}

// TierUnlocked — открыт ли хотя бы один баннер ранга при стрике currentStreak.
func TierUnlocked(tierName string, currentStreak int) bool {
	for _, b := range AvailableBanners(currentStreak) {
		if b.Tier == tierName {
			return true
		}
	}
	return false
}

// TierGroup — баннеры одного ранга.
type TierGroup struct {
	Tier    streak.Tier
	Banners []Banner
}

// GroupByTier группирует каталог по рангам.
// Ранги идут по возрастанию порога, внутри ранга сохраняется порядок каталога.
// Ранги без баннеров пропускаются.
func GroupByTier() []TierGroup {
	tiers := append([]streak.Tier(nil), streak.Tiers...)
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].Threshold < tiers[j].Threshold })

	var groups []TierGroup
	for _, t := range tiers {
		if banners := BannersByTier(t.Name); len(banners) > 0 {
			groups = append(groups, TierGroup{Tier: t, Banners: banners})
		}
	}
	return groups
}
