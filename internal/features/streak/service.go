// Package streak — service.go собирает прогресс пользователя из постов хранилища
// и отбирает пользователей для напоминаний.
package streak

import (
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/features/ledger"
	"serotonyl.ru/gymshots/internal/store"
)

// Progress — сводка по стрику пользователя.
type Progress struct {
	User        store.User
	Streak      int // Максимальный стрик среди постов
	Tier        TierInfo
	Posts       int
	DaysInRow   int // Дней подряд с постами, заканчивая сегодняшним
	PostedToday bool
	SuperWeek   bool // Посты каждый день этой недели
	MissedThree bool // Три дня подряд без постов
}

// Standing — пользователь и его текущий стрик (для рассылок).
type Standing struct {
	User   store.User
	Streak int
}

// Service считает стрики поверх хранилища. Состояние не меняет.
type Service struct {
	store     *store.Store
	loc       *time.Location
	minStreak int // Минимальный стрик для напоминания
}

// NewService создаёт сервис стриков.
func NewService(st *store.Store, loc *time.Location, minStreak int) *Service {
	if minStreak < 1 {
		minStreak = 1
	}
	return &Service{store: st, loc: loc, minStreak: minStreak}
}

// Progress возвращает прогресс пользователя на момент now.
func (s *Service) Progress(userID string, now time.Time) (*Progress, error) {
	user, err := s.store.User(userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения прогресса: %w", err)
	}

	posts := s.store.PostsByUser(userID)
	return s.progress(user, posts, now), nil
}

func (s *Service) progress(user store.User, posts []store.Post, now time.Time) *Progress {
	today := now.In(s.loc)
	streak := ledger.CurrentStreak(posts)
	cal := DailyPostMap(posts, s.loc)

	return &Progress{
		User:        user,
		Streak:      streak,
		Tier:        Classify(streak),
		Posts:       len(posts),
		DaysInRow:   ConsecutiveDays(cal, today),
		PostedToday: cal.Has(today),
		SuperWeek:   SuperStreakThisWeek(cal, today),
		MissedThree: MissedThreeInRow(cal, today),
	}
}

// AtRisk возвращает пользователей со стриком не ниже порога,
// которые сегодня ещё не публиковали пост, но и не пропали на три дня.
func (s *Service) AtRisk(now time.Time) []Standing {
	snapshot := s.store.Snapshot()

	var out []Standing
	for _, user := range sortedUsers(snapshot) {
		p := s.progress(user, store.PostsByUser(snapshot.Posts, user.ID), now)
		if p.Streak < s.minStreak || p.PostedToday || p.MissedThree {
			continue
		}
		out = append(out, Standing{User: user, Streak: p.Streak})
	}

	log.WithFields(log.Fields{
		"users":   len(snapshot.Users),
		"at_risk": len(out),
	}).Debug("Поиск пользователей под угрозой потери стрика")
	return out
}

// SuperStreakers возвращает пользователей с постами в каждый день текущей недели.
func (s *Service) SuperStreakers(now time.Time) []Standing {
	snapshot := s.store.Snapshot()

	var out []Standing
	for _, user := range sortedUsers(snapshot) {
		p := s.progress(user, store.PostsByUser(snapshot.Posts, user.ID), now)
		if p.SuperWeek {
			out = append(out, Standing{User: user, Streak: p.Streak})
		}
	}
	return out
}

func sortedUsers(state store.State) []store.User {
	users := make([]store.User, 0, len(state.Users))
	for _, u := range state.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}
