// Package posts — service.go публикует посты, добавляет комментарии
// и собирает ленту из хранилища.
package posts

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/store"
)

// MaxCommentLength — максимальная длина комментария в символах.
const MaxCommentLength = 500

// minPrefix — минимальная длина префикса ID поста для поиска.
const minPrefix = 4

// Item — пост вместе с автором.
type Item struct {
	Post   store.Post
	Author store.User
}

// Service управляет постами.
type Service struct {
	store     *store.Store
	pickLabel func() string
}

// Option настраивает Service.
type Option func(*Service)

// WithLabelPicker задаёт выбор косметического описания нового поста.
func WithLabelPicker(pick func() string) Option {
	return func(s *Service) { s.pickLabel = pick }
}

// NewService создаёт сервис постов. По умолчанию описание выбирается случайно.
func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		pickLabel: func() string {
			return store.Labels[rand.IntN(len(store.Labels))]
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture публикует фото тренировки от имени userID.
// Подпись разбирается ParseCaption; неизвестный тег становится broSplit.
func (s *Service) Capture(userID, imageURI, caption string) (store.Post, error) {
	if strings.TrimSpace(imageURI) == "" {
		return store.Post{}, common.ErrNoPhoto
	}

	c := ParseCaption(caption)
	label := s.pickLabel()

	// Пользователь мог исчезнуть после !сброс: проверяем его под той же блокировкой
	state, err := s.store.DispatchFunc(func(st store.State) (store.Action, error) {
		if _, ok := st.Users[userID]; !ok {
			return nil, fmt.Errorf("ошибка публикации поста: %w (id=%s)", common.ErrUserNotFound, userID)
		}
		return store.AddPost{
			UserID:   userID,
			ImageURI: imageURI,
			Caption:  c.Caption,
			Tag:      c.Tag,
			Location: c.Location,
			Label:    label,
		}, nil
	})
	if err != nil {
		return store.Post{}, err
	}
	post := state.Posts[0]

	log.WithFields(log.Fields{
		"user_id": userID,
		"post_id": post.ID,
		"tag":     post.Tag,
		"streak":  post.Streak,
	}).Info("Пост опубликован")

	return post, nil
}

// Comment добавляет комментарий userID к посту postRef (ID или его префикс).
func (s *Service) Comment(userID, postRef, text string) (store.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.Post{}, common.ErrEmptyComment
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		text = common.Truncate(text, MaxCommentLength-3)
	}

	post, err := s.Find(postRef)
	if err != nil {
		return store.Post{}, err
	}

	s.store.Dispatch(store.AddComment{PostID: post.ID, Text: text, UserID: userID})

	log.WithFields(log.Fields{
		"user_id": userID,
		"post_id": post.ID,
	}).Debug("Комментарий добавлен")

	return s.store.Post(post.ID)
}

// Find ищет пост по точному ID или по уникальному префиксу ID.
func (s *Service) Find(ref string) (store.Post, error) {
	ref = strings.TrimSpace(ref)
	if p, err := s.store.Post(ref); err == nil {
		return p, nil
	}
	if utf8.RuneCountInString(ref) < minPrefix {
		return store.Post{}, fmt.Errorf("%w (id=%s)", common.ErrPostNotFound, ref)
	}

	var found []store.Post
	for _, p := range s.store.Posts() {
		if strings.HasPrefix(p.ID, ref) {
			found = append(found, p)
		}
	}
	if len(found) != 1 {
		return store.Post{}, fmt.Errorf("%w (id=%s, совпадений: %d)", common.ErrPostNotFound, ref, len(found))
	}
	return found[0], nil
}

// Feed возвращает limit последних постов всех пользователей (новые сверху).
func (s *Service) Feed(limit int) []Item {
	state := s.store.Snapshot()
	posts := sortByDate(state.Posts)
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	items := make([]Item, len(posts))
	for i, p := range posts {
		items[i] = Item{Post: p, Author: state.Users[p.UserID]}
	}
	return items
}

// Gymshots возвращает все посты пользователя (новые сверху).
func (s *Service) Gymshots(userID string) ([]store.Post, error) {
	if !s.store.HasUser(userID) {
		return nil, fmt.Errorf("ошибка получения постов: %w (id=%s)", common.ErrUserNotFound, userID)
	}
	return sortByDate(s.store.PostsByUser(userID)), nil
}

// Detail возвращает пост с автором.
func (s *Service) Detail(postRef string) (Item, error) {
	post, err := s.Find(postRef)
	if err != nil {
		return Item{}, err
	}
	author, err := s.store.User(post.UserID)
	if err != nil {
		author = store.User{ID: post.UserID, Name: post.UserID}
	}
	return Item{Post: post, Author: author}, nil
}

// sortByDate сортирует копию постов по CreatedAt, новые сверху.
func sortByDate(posts []store.Post) []store.Post {
	out := append([]store.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
