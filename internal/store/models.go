// Package store хранит всё состояние приложения в памяти процесса:
// пользователей и посты. Состояние меняется только через редьюсер (reducer.go).
// models.go описывает структуры данных.
package store

import (
	"time"

	"serotonyl.ru/gymshots/internal/features/workouts"
)

// DefaultBannerID — баннер, которым владеет каждый пользователь.
const DefaultBannerID = "default"

// DefaultLabel — описание поста, если оно не передано.
const DefaultLabel = "certified"

// Labels — косметические описания постов.
var Labels = []string{
	"certified", "clinic", "critical", "bombastic", "deep", "solid", "hard", "easy", "chill",
}

// Post — фото тренировки в ленте.
// Пост неизменяем, кроме Comments: комментарии только добавляются.
type Post struct {
	ID          string
	UserID      string
	ImageURI    string
	Caption     string
	CreatedAt   time.Time
	Tag         workouts.Category // Категория тренировки (валюта для баннеров)
	Label       string            // Косметическое описание: "certified", "bombastic", ...
	Location    string
	Streak      int      // Снимок стрика на момент публикации
	Impressions []string // Реакции-эмодзи
	Comments    []Comment
}

// Comment — комментарий к посту.
type Comment struct {
	UserName  string
	Text      string
	CreatedAt time.Time
}

// User — профиль пользователя.
type User struct {
	ID             string
	Name           string
	Handle         string
	Avatar         string
	Bio            string
	EquippedBanner string   // ID надетого баннера ("default" по умолчанию)
	OwnedBanners   []string // Купленные баннеры, всегда содержит "default"
}

// Owns проверяет, есть ли баннер в коллекции пользователя.
func (u User) Owns(bannerID string) bool {
	for _, id := range u.OwnedBanners {
		if id == bannerID {
			return true
		}
	}
	return false
}

// State — всё состояние приложения.
// Порядок Posts — порядок вставки (новые в начале), для отображения
// потребители сами сортируют по CreatedAt.
type State struct {
	CurrentUser User
	Users       map[string]User
	Posts       []Post
}

// ProfilePatch — частичное обновление профиля.
// nil-поле означает «не менять», непустой указатель — «перезаписать».
type ProfilePatch struct {
	Name   *string
	Bio    *string
	Avatar *string
}

// Apply применяет патч к пользователю и возвращает новую копию.
func (p ProfilePatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}

// IsEmpty — в патче нет ни одного поля.
func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.Bio == nil && p.Avatar == nil
}

// Clone возвращает глубокую копию поста.
func (p Post) Clone() Post {
	p.Impressions = append([]string(nil), p.Impressions...)
	p.Comments = append([]Comment(nil), p.Comments...)
	return p
}

// Clone возвращает глубокую копию пользователя.
func (u User) Clone() User {
	u.OwnedBanners = append([]string(nil), u.OwnedBanners...)
	return u
}

// Clone возвращает глубокую копию состояния.
func (s State) Clone() State {
	out := State{
		CurrentUser: s.CurrentUser.Clone(),
		Users:       make(map[string]User, len(s.Users)),
		Posts:       make([]Post, len(s.Posts)),
	}
	for id, u := range s.Users {
		out.Users[id] = u.Clone()
	}
	for i, p := range s.Posts {
		out.Posts[i] = p.Clone()
	}
	return out
}

// PostsByUser возвращает посты пользователя в порядке хранения.
func PostsByUser(posts []Post, userID string) []Post {
	var out []Post
	for _, p := range posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

// MaxStreak — максимальный стрик среди постов, 0 если постов нет.
func MaxStreak(posts []Post) int {
	best := 0
	for _, p := range posts {
		if p.Streak > best {
			best = p.Streak
		}
	}
	return best
}
