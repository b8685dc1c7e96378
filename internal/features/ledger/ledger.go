// Package ledger считает «кошелёк» тренировок пользователя.
// Каждый пост — одна единица валюты своей категории. Валюта не тратится:
// покупка баннера лишь проверяет, что накоплено достаточно.
package ledger

import (
	"fmt"
	"strings"

	"serotonyl.ru/gymshots/internal/features/workouts"
	"serotonyl.ru/gymshots/internal/store"
)

// Ledger — количество постов по категориям.
// Отсутствующая категория означает 0.
type Ledger map[workouts.Category]int

// Build считает посты по категориям.
// Посты с нераспознанным тегом попадают в workouts.Fallback.
func Build(posts []store.Post) Ledger {
	l := make(Ledger)
	for _, p := range posts {
		l[workouts.Normalize(string(p.Tag))]++
	}
	return l
}

// ForUser строит кошелёк только по постам пользователя userID.
func ForUser(posts []store.Post, userID string) Ledger {
	return Build(store.PostsByUser(posts, userID))
}

// CurrentStreak — максимальный стрик среди постов (0, если постов нет).
func CurrentStreak(posts []store.Post) int {
	return store.MaxStreak(posts)
}

// Count возвращает количество постов категории c.
func (l Ledger) Count(c workouts.Category) int {
	return l[c]
}

// Total — общее количество постов.
func (l Ledger) Total() int {
	total := 0
	for _, n := range l {
		total += n
	}
	return total
}

// String форматирует кошелёк в порядке категорий, пропуская нули.
// Пример: "🦵 Leg: 3, 💪 Pull: 1"
func (l Ledger) String() string {
	var parts []string
	for _, info := range workouts.Categories {
		if n := l[info.Key]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %s: %d", info.Emoji, info.Label, n))
		}
	}
	if len(parts) == 0 {
		return "пусто"
	}
	return strings.Join(parts, ", ")
}
