// Package streak отвечает за стрики: ранги (тиры), прогресс до следующего ранга
// и календарь тренировок.
// tiers.go описывает таблицу рангов.
package streak

import "strings"

// Tier — строка таблицы рангов.
type Tier struct {
	Name      string
	Threshold int    // Минимальный стрик для ранга
	Color     string // Цвет ранга для отображения
}

// Tiers — таблица рангов по возрастанию порога. Пороги уникальны,
// первый ранг (Beginner) начинается с 0.
var Tiers = []Tier{
	{Name: "Beginner", Threshold: 0, Color: "#374151"},
	{Name: "Novice", Threshold: 1, Color: "#b0c3d9"},
	{Name: "Intermediate", Threshold: 6, Color: "#5e98d9"},
	{Name: "Advanced", Threshold: 15, Color: "#4b69ff"},
	{Name: "Expert", Threshold: 31, Color: "#8847ff"},
	{Name: "Master", Threshold: 50, Color: "#d32ce6"},
	{Name: "Elite", Threshold: 76, Color: "#eb4b4b"},
	{Name: "Champion", Threshold: 100, Color: "#b28a33"},
	{Name: "Legend", Threshold: 150, Color: "#ade55c"},
	{Name: "Immortal", Threshold: 300, Color: "#fff34f"},
}

// TierByName ищет ранг по названию (без учёта регистра).
func TierByName(name string) (Tier, bool) {
	for _, t := range Tiers {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Tier{}, false
}

// Color возвращает цвет ранга для стрика n.
func Color(n int) string {
	return Tiers[tierIndex(n)].Color
}

// tierIndex — индекс последнего ранга с порогом <= n.
// Для отрицательного n возвращает 0.
func tierIndex(n int) int {
	for i := len(Tiers) - 1; i >= 0; i-- {
		if n >= Tiers[i].Threshold {
			return i
		}
	}
	return 0
}
