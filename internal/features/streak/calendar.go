// Package streak — calendar.go раскладывает посты по календарным дням
// и считает серии дней подряд.
// Все функции работают в часовом поясе, в котором передан today.
package streak

import (
	"sort"
	"time"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/store"
)

// Calendar — посты, сгруппированные по ключу дня "2006-01-02".
type Calendar map[string][]store.Post

// DailyPostMap раскладывает посты по дням в часовом поясе loc.
func DailyPostMap(posts []store.Post, loc *time.Location) Calendar {
	c := make(Calendar)
	for _, p := range posts {
		key := common.DateKey(p.CreatedAt, loc)
		c[key] = append(c[key], p)
	}
	return c
}

// Has проверяет, есть ли пост в день t.
func (c Calendar) Has(t time.Time) bool {
	return len(c[common.DateKey(t, t.Location())]) > 0
}

// Days возвращает отсортированные ключи дней с постами.
func (c Calendar) Days() []string {
	days := make([]string, 0, len(c))
	for k := range c {
		days = append(days, k)
	}
	sort.Strings(days)
	return days
}

// ConsecutiveDays — сколько дней подряд, заканчивая сегодняшним, есть посты.
// Если сегодня поста нет, серия равна 0.
func ConsecutiveDays(c Calendar, today time.Time) int {
	count := 0
	for cursor := today; c.Has(cursor); cursor = cursor.AddDate(0, 0, -1) {
		count++
	}
	return count
}

// MissedThreeInRow — сегодня и два предыдущих дня без постов.
func MissedThreeInRow(c Calendar, today time.Time) bool {
	cursor := today
	for i := 0; i < 3; i++ {
		if c.Has(cursor) {
			return false
		}
		cursor = cursor.AddDate(0, 0, -1)
	}
	return true
}

// SuperStreakThisWeek — посты есть в каждый из семи дней текущей недели.
// Неделя начинается с воскресенья.
func SuperStreakThisWeek(c Calendar, today time.Time) bool {
	start := StartOfWeek(today)
	for i := 0; i < 7; i++ {
		if !c.Has(start.AddDate(0, 0, i)) {
			return false
		}
	}
	return true
}

// StartOfWeek возвращает полночь воскресенья недели, в которую попадает t.
func StartOfWeek(t time.Time) time.Time {
	return common.StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}
