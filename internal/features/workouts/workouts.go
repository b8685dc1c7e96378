// Package workouts описывает категории тренировок.
// Категория — это тег поста и одновременно «валюта» для покупки баннеров.
package workouts

import "strings"

// Category — ключ категории тренировки (тег поста).
type Category string

// Распознаваемые категории.
const (
	Pull     Category = "pull"
	Push     Category = "push"
	Leg      Category = "leg"
	FullBody Category = "fullBody"
	Cardio   Category = "cardio"
	BroSplit Category = "broSplit"
)

// Fallback — категория, которую получает пост с нераспознанным тегом.
const Fallback = BroSplit

// DefaultColor — цвет для неизвестной категории.
const DefaultColor = "#374151"

// Info — описание категории для отображения.
type Info struct {
	Key   Category
	Label string // Название для людей ("Full Body")
	Color string // Цвет тега
	Emoji string
}

// Categories — все категории в порядке объявления.
// Этот порядок используется при выводе «кошелька» тренировок.
var Categories = []Info{
	{Key: Pull, Label: "Pull", Color: "#b0c3d9", Emoji: "💪"},
	{Key: Push, Label: "Push", Color: "#5e98d9", Emoji: "🏋️"},
	{Key: Leg, Label: "Leg", Color: "#4b69ff", Emoji: "🦵"},
	{Key: FullBody, Label: "Full Body", Color: "#8847ff", Emoji: "🦍"},
	{Key: Cardio, Label: "Cardio", Color: "#d32ce6", Emoji: "⚡"},
	{Key: BroSplit, Label: "Bro Split", Color: "#eb4b4b", Emoji: "😈"},
}

// Keys возвращает ключи всех категорий в порядке объявления.
func Keys() []Category {
	keys := make([]Category, len(Categories))
	for i, c := range Categories {
		keys[i] = c.Key
	}
	return keys
}

// Lookup возвращает описание категории по точному ключу.
func Lookup(c Category) (Info, bool) {
	for _, info := range Categories {
		if info.Key == c {
			return info, true
		}
	}
	return Info{}, false
}

// Parse распознаёт категорию в пользовательском вводе.
// Принимает ключ или название без учёта регистра, пробелов и дефисов:
// "fullBody", "full body", "Full-Body" → FullBody.
func Parse(raw string) (Category, bool) {
	if _, ok := Lookup(Category(raw)); ok {
		return Category(raw), true
	}

	needle := squash(raw)
	if needle == "" {
		return "", false
	}
	for _, info := range Categories {
		if squash(string(info.Key)) == needle || squash(info.Label) == needle {
			return info.Key, true
		}
	}
	return "", false
}

// Normalize приводит тег к распознанной категории.
// Нераспознанный тег НЕ считается ошибкой: пост получает Fallback.
func Normalize(raw string) Category {
	if c, ok := Parse(raw); ok {
		return c
	}
	return Fallback
}

// Label возвращает название категории или сам ключ, если категория неизвестна.
func (c Category) Label() string {
	if info, ok := Lookup(c); ok {
		return info.Label
	}
	return string(c)
}

// Emoji возвращает эмодзи категории (💪 по умолчанию).
func (c Category) Emoji() string {
	if info, ok := Lookup(c); ok {
		return info.Emoji
	}
	return "💪"
}

// Color возвращает цвет категории (DefaultColor для неизвестной).
func (c Category) Color() string {
	if info, ok := Lookup(c); ok {
		return info.Color
	}
	return DefaultColor
}

func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	return s
}
