// Package store — reducer.go содержит действия и редьюсер.
// Каждое действие — чистая тотальная функция (state, action) → state':
// входное состояние не изменяется, частичного применения не бывает.
package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"serotonyl.ru/gymshots/internal/features/workouts"
)

// Action — действие над состоянием.
type Action interface {
	// Name — имя действия для логов.
	Name() string
}

// AddPost публикует новый пост. Пустой UserID — текущий пользователь.
type AddPost struct {
	UserID      string
	ImageURI    string
	Caption     string
	Tag         string // Нераспознанный тег превращается в workouts.Fallback
	Location    string
	Impressions []string
	Comments    []Comment
	Label       string // Пустая строка — DefaultLabel
}

// AddComment добавляет комментарий к посту.
// Автор — текущий пользователь, либо UserID, если он задан.
type AddComment struct {
	PostID string
	Text   string
	UserID string
}

// PurchaseBanner добавляет баннер в коллекцию пользователя.
// Предусловия (тир, цена, владение) проверяет экономика ДО вызова:
// редьюсер безусловен и не идемпотентен.
type PurchaseBanner struct {
	UserID   string
	BannerID string
}

// EquipBanner надевает баннер (простая перезапись, без проверок).
type EquipBanner struct {
	UserID   string
	BannerID string
}

// UpdateProfile частично обновляет профиль. Пустой UserID — текущий пользователь.
type UpdateProfile struct {
	UserID string
	Patch  ProfilePatch
}

// AddImpression добавляет реакцию-эмодзи к посту.
// Лимиты реакций проверяет вызывающий код.
type AddImpression struct {
	PostID string
	Emoji  string
}

// Reset возвращает исходное (seed) состояние.
type Reset struct{}

// RegisterUser добавляет нового пользователя (участник чата, впервые написавший боту).
// Если пользователь уже есть — состояние не меняется.
type RegisterUser struct {
	User User
}

// SwitchUser делает пользователя текущим.
type SwitchUser struct {
	UserID string
}

func (AddPost) Name() string        { return "add_post" }
func (AddComment) Name() string     { return "add_comment" }
func (PurchaseBanner) Name() string { return "purchase_banner" }
func (EquipBanner) Name() string    { return "equip_banner" }
func (UpdateProfile) Name() string  { return "update_profile" }
func (AddImpression) Name() string  { return "add_impression" }
func (Reset) Name() string          { return "reset" }
func (RegisterUser) Name() string   { return "register_user" }
func (SwitchUser) Name() string     { return "switch_user" }

// Reducer применяет действия к состоянию.
// Часы и генератор ID подменяются в тестах.
type Reducer struct {
	seed  State
	now   func() time.Time
	newID func() string
}

// Option настраивает Reducer.
type Option func(*Reducer)

// WithClock задаёт источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(r *Reducer) { r.now = now }
}

// WithIDGenerator задаёт генератор ID постов.
func WithIDGenerator(newID func() string) Option {
	return func(r *Reducer) { r.newID = newID }
}

// NewReducer создаёт редьюсер с исходным состоянием seed (на него сбрасывает Reset).
func NewReducer(seed State, opts ...Option) *Reducer {
	r := &Reducer{
		seed:  normalizeState(seed.Clone()),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initial возвращает копию исходного состояния.
func (r *Reducer) Initial() State {
	return r.seed.Clone()
}

// Reduce применяет действие и возвращает новое состояние.
// Неизвестное действие возвращает состояние без изменений.
func (r *Reducer) Reduce(s State, action Action) State {
	switch a := action.(type) {
	case AddPost:
		return r.addPost(s, a)
	case AddComment:
		return r.addComment(s, a)
	case PurchaseBanner:
		return updateUser(s, a.UserID, func(u User) User {
			u.OwnedBanners = append(u.OwnedBanners, a.BannerID)
			return u
		})
	case EquipBanner:
		return updateUser(s, a.UserID, func(u User) User {
			u.EquippedBanner = a.BannerID
			return u
		})
	case UpdateProfile:
		return updateProfile(s, a)
	case AddImpression:
		return updatePost(s, a.PostID, func(p Post) Post {
			p.Impressions = append(append([]string(nil), p.Impressions...), a.Emoji)
			return p
		})
	case Reset:
		return r.Initial()
	case RegisterUser:
		return registerUser(s, a.User)
	case SwitchUser:
		if u, ok := s.Users[a.UserID]; ok {
			s.CurrentUser = u.Clone()
		}
		return s
	default:
		return s
	}
}

// addPost — стрик нового поста = максимальный стрик пользователя + 1.
// Пост кладётся в начало списка (без сортировки).
func (r *Reducer) addPost(s State, a AddPost) State {
	userID := a.UserID
	if userID == "" {
		userID = s.CurrentUser.ID
	}
	if _, ok := s.Users[userID]; !ok {
		return s
	}

	label := strings.TrimSpace(a.Label)
	if label == "" {
		label = DefaultLabel
	}

	post := Post{
		ID:          r.newID(),
		UserID:      userID,
		ImageURI:    a.ImageURI,
		Caption:     a.Caption,
		CreatedAt:   r.now(),
		Tag:         workouts.Normalize(a.Tag),
		Label:       label,
		Location:    a.Location,
		Streak:      MaxStreak(PostsByUser(s.Posts, userID)) + 1,
		Impressions: append([]string{}, a.Impressions...),
		Comments:    append([]Comment{}, a.Comments...),
	}

	posts := make([]Post, 0, len(s.Posts)+1)
	posts = append(posts, post)
	posts = append(posts, s.Posts...)
	s.Posts = posts
	return s
}

// addComment — неизвестный PostID оставляет состояние без изменений.
func (r *Reducer) addComment(s State, a AddComment) State {
	author := s.CurrentUser.Name
	if a.UserID != "" {
		if u, ok := s.Users[a.UserID]; ok {
			author = u.Name
		}
	}

	return updatePost(s, a.PostID, func(p Post) Post {
		comments := make([]Comment, len(p.Comments), len(p.Comments)+1)
		copy(comments, p.Comments)
		p.Comments = append(comments, Comment{
			UserName:  author,
			Text:      a.Text,
			CreatedAt: r.now(),
		})
		return p
	})
}

// updatePost применяет fn к посту postID в копии списка постов.
// Неизвестный пост — без изменений.
func updatePost(s State, postID string, fn func(Post) Post) State {
	for i, p := range s.Posts {
		if p.ID != postID {
			continue
		}
		posts := append([]Post(nil), s.Posts...)
		posts[i] = fn(p)
		s.Posts = posts
		return s
	}
	return s
}

// updateUser применяет fn к пользователю userID (пустой — текущий)
// и синхронизирует слот CurrentUser. Неизвестный пользователь — без изменений.
func updateUser(s State, userID string, fn func(User) User) State {
	if userID == "" {
		userID = s.CurrentUser.ID
	}
	u, ok := s.Users[userID]
	if !ok {
		return s
	}

	updated := fn(u.Clone())
	s.Users = copyUsers(s.Users)
	s.Users[userID] = updated
	if s.CurrentUser.ID == userID {
		s.CurrentUser = updated.Clone()
	}
	return s
}

// updateProfile применяет патч и к слоту CurrentUser, и к записи в Users.
func updateProfile(s State, a UpdateProfile) State {
	if a.UserID == "" {
		if _, ok := s.Users[s.CurrentUser.ID]; !ok {
			s.CurrentUser = a.Patch.Apply(s.CurrentUser.Clone())
			return s
		}
	}
	return updateUser(s, a.UserID, a.Patch.Apply)
}

func registerUser(s State, u User) State {
	if u.ID == "" {
		return s
	}
	if _, exists := s.Users[u.ID]; exists {
		return s
	}
	s.Users = copyUsers(s.Users)
	s.Users[u.ID] = normalizeUser(u.Clone())
	return s
}

func copyUsers(users map[string]User) map[string]User {
	out := make(map[string]User, len(users)+1)
	for id, u := range users {
		out[id] = u
	}
	return out
}

// normalizeUser гарантирует инварианты: "default" всегда в коллекции,
// надетый баннер по умолчанию — "default".
func normalizeUser(u User) User {
	if !u.Owns(DefaultBannerID) {
		u.OwnedBanners = append([]string{DefaultBannerID}, u.OwnedBanners...)
	}
	if u.EquippedBanner == "" {
		u.EquippedBanner = DefaultBannerID
	}
	return u
}

func normalizeState(s State) State {
	if s.Users == nil {
		s.Users = make(map[string]User)
	}
	for id, u := range s.Users {
		u.ID = id
		s.Users[id] = normalizeUser(u)
	}
	if u, ok := s.Users[s.CurrentUser.ID]; ok {
		s.CurrentUser = u.Clone()
	} else if s.CurrentUser.ID != "" {
		s.CurrentUser = normalizeUser(s.CurrentUser)
	}
	return s
}
