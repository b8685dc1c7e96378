// Package store — store.go содержит объект хранилища.
// Хранилище создаётся в точке сборки (app) и передаётся сервисам явно:
// никаких глобальных синглтонов. Каждое действие применяется атомарно под мьютексом,
// читатели получают копии состояния и могут работать с ними без блокировок.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
)

// Store — единственный владелец состояния.
type Store struct {
	mu      sync.RWMutex
	reducer *Reducer
	state   State
}

// New создаёт хранилище, инициализированное seed-состоянием.
func New(seed State, opts ...Option) *Store {
	r := NewReducer(seed, opts...)
	return &Store{
		reducer: r,
		state:   r.Initial(),
	}
}

// Dispatch применяет действие и возвращает копию нового состояния.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(action)
	return s.state.Clone()
}

// DispatchFunc выбирает действие по текущему состоянию и применяет его
// под той же блокировкой: между проверкой и изменением никто не вклинится.
// decide получает копию состояния; nil-действие или ошибка оставляют состояние как есть.
// decide не должен обращаться к хранилищу.
func (s *Store) DispatchFunc(decide func(State) (Action, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, err := decide(s.state.Clone())
	if err != nil {
		return State{}, err
	}
	if action != nil {
		s.apply(action)
	}
	return s.state.Clone(), nil
}

// apply вызывается под s.mu.
func (s *Store) apply(action Action) {
	s.state = s.reducer.Reduce(s.state, action)

	log.WithFields(log.Fields{
		"action": action.Name(),
		"posts":  len(s.state.Posts),
		"users":  len(s.state.Users),
	}).Debug("Действие применено")
}

// Snapshot возвращает копию текущего состояния.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Posts возвращает все посты в порядке хранения.
func (s *Store) Posts() []Post {
	return s.Snapshot().Posts
}

// PostsByUser возвращает посты пользователя в порядке хранения.
func (s *Store) PostsByUser(userID string) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := PostsByUser(s.state.Posts, userID)
	for i := range posts {
		posts[i] = posts[i].Clone()
	}
	return posts
}

// Post возвращает пост по ID.
func (s *Store) Post(id string) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.state.Posts {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return Post{}, fmt.Errorf("%w (id=%s)", common.ErrPostNotFound, id)
}

// User возвращает пользователя по ID.
func (s *Store) User(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.state.Users[id]
	if !ok {
		return User{}, fmt.Errorf("%w (id=%s)", common.ErrUserNotFound, id)
	}
	return u.Clone(), nil
}

// HasUser проверяет, зарегистрирован ли пользователь.
func (s *Store) HasUser(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.state.Users[id]
	return ok
}

// CurrentUser возвращает текущего пользователя.
func (s *Store) CurrentUser() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentUser.Clone()
}

// Users возвращает всех пользователей, отсортированных по ID.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.state.Users))
	for _, u := range s.state.Users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// FindUserByHandle ищет пользователя по хэндлу (без @, регистр не важен).
func (s *Store) FindUserByHandle(handle string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.state.Users {
		if strings.EqualFold(u.Handle, handle) {
			return u.Clone(), nil
		}
	}
	return User{}, fmt.Errorf("%w (handle=%s)", common.ErrUserNotFound, handle)
}
