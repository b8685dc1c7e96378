// Package karma — service.go содержит бизнес-логику реакций и кармы.
package karma

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/store"
)

// PostFinder ищет пост по ID или его префиксу.
type PostFinder interface {
	Find(ref string) (store.Post, error)
}

// Service управляет реакциями.
type Service struct {
	store      *store.Store
	finder     PostFinder
	dailyLimit int
	loc        *time.Location
	now        func() time.Time

	mu    sync.Mutex
	given []Reaction // Реакции за текущий день
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService создаёт сервис реакций. dailyLimit — реакций в день на одного участника.
func NewService(st *store.Store, finder PostFinder, dailyLimit int, loc *time.Location, opts ...Option) *Service {
	if dailyLimit < 1 {
		dailyLimit = 1
	}
	s := &Service{
		store:      st,
		finder:     finder,
		dailyLimit: dailyLimit,
		loc:        loc,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// React ставит реакцию fromUserID на пост postRef.
// Проверяет: не свой пост, дневной лимит, одна реакция на пост в день.
func (s *Service) React(fromUserID, postRef, emoji string) (store.Post, error) {
	post, err := s.finder.Find(postRef)
	if err != nil {
		return store.Post{}, err
	}
	if post.UserID == fromUserID {
		return store.Post{}, common.ErrKarmaSelfGive
	}
	if !IsReaction(emoji) {
		emoji = DefaultReaction
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := common.DateKey(now, s.loc)

	count := 0
	var kept []Reaction
	for _, r := range s.given {
		if common.DateKey(r.CreatedAt, s.loc) != today {
			continue
		}
		kept = append(kept, r)
		if r.FromUserID != fromUserID {
			continue
		}
		if r.PostID == post.ID {
			return store.Post{}, common.ErrKarmaAlreadyGave
		}
		count++
	}
	s.given = kept

	if count >= s.dailyLimit {
		return store.Post{}, common.ErrKarmaDailyLimit
	}

	s.given = append(s.given, Reaction{FromUserID: fromUserID, PostID: post.ID, Emoji: emoji, CreatedAt: now})
	s.store.Dispatch(store.AddImpression{PostID: post.ID, Emoji: emoji})

	log.WithFields(log.Fields{
		"from_user": fromUserID,
		"post_id":   post.ID,
		"emoji":     emoji,
	}).Debug("Реакция добавлена")

	return s.store.Post(post.ID)
}

// ClearReactions забывает реакции за день. Вызывается после сброса хранилища,
// когда impressions постов возвращаются к seed.
func (s *Service) ClearReactions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.given = nil
}

// FindByImage ищет пост по ID фото в Telegram (он же ImageURI поста).
func (s *Service) FindByImage(fileID string) (store.Post, error) {
	if fileID != "" {
		for _, p := range s.store.Posts() {
			if p.ImageURI == fileID {
				return p, nil
			}
		}
	}
	return store.Post{}, fmt.Errorf("%w (image=%s)", common.ErrPostNotFound, fileID)
}

// GetKarma считает карму пользователя по реакциям на его посты.
func (s *Service) GetKarma(userID string) (*Summary, error) {
	if !s.store.HasUser(userID) {
		return nil, fmt.Errorf("ошибка получения кармы: %w (id=%s)", common.ErrUserNotFound, userID)
	}

	sum := &Summary{UserID: userID, ByEmoji: make(map[string]int)}
	for _, p := range s.store.PostsByUser(userID) {
		if len(p.Impressions) == 0 {
			continue
		}
		sum.Posts++
		for _, e := range p.Impressions {
			sum.Karma++
			sum.ByEmoji[e]++
		}
	}

	// Самая частая реакция; при равенстве — раньше в списке Reactions
	best := 0
	for _, e := range Reactions {
		if n := sum.ByEmoji[e]; n > best {
			best, sum.TopEmoji = n, e
		}
	}
	return sum, nil
}
