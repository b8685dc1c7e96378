// Package members — service.go содержит бизнес-логику участников:
// регистрацию при первом сообщении, поиск по @handle, профиль и его редактирование.
package members

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/features/economy"
	"serotonyl.ru/gymshots/internal/features/ledger"
	"serotonyl.ru/gymshots/internal/features/streak"
	"serotonyl.ru/gymshots/internal/store"
)

// Service управляет участниками.
type Service struct {
	store    *store.Store
	validate *validator.Validate
}

// NewService создаёт новый сервис участников.
func NewService(st *store.Store) *Service {
	return &Service{
		store:    st,
		validate: validator.New(),
	}
}

// EnsureMember гарантирует, что пользователь Telegram есть в хранилище,
// и возвращает его ID. Данные существующего пользователя не перезаписываются:
// имя и био он меняет сам.
func (s *Service) EnsureMember(telegramID int64, username, firstName, lastName string) (string, error) {
	if telegramID == 0 {
		return "", fmt.Errorf("ошибка регистрации участника: %w", common.ErrUserNotFound)
	}

	id := UserID(telegramID)
	if s.store.HasUser(id) {
		return id, nil
	}

	name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if name == "" {
		name = username
	}
	if name == "" {
		name = id
	}
	name = common.Truncate(name, MaxNameLength-3)

	handle := username
	if handle == "" {
		handle = fmt.Sprintf("id%d", telegramID)
	}

	s.store.Dispatch(store.RegisterUser{User: store.User{
		ID:     id,
		Name:   name,
		Handle: handle,
	}})

	log.WithFields(log.Fields{
		"user_id":  id,
		"username": username,
	}).Info("Новый участник зарегистрирован")

	return id, nil
}

// IsMember проверяет, зарегистрирован ли пользователь Telegram.
func (s *Service) IsMember(telegramID int64) bool {
	return s.store.HasUser(UserID(telegramID))
}

// Resolve ищет пользователя по ссылке: "@handle", "handle" или ID.
func (s *Service) Resolve(ref string) (store.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return store.User{}, common.ErrUserNotFound
	}
	if u, err := s.store.FindUserByHandle(strings.TrimPrefix(ref, "@")); err == nil {
		return u, nil
	}
	return s.store.User(ref)
}

// GetProfile собирает профиль пользователя.
func (s *Service) GetProfile(userID string) (*Profile, error) {
	user, err := s.store.User(userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профиля: %w", err)
	}

	posts := s.store.PostsByUser(userID)
	current := ledger.CurrentStreak(posts)

	comments := 0
	for _, p := range posts {
		comments += len(p.Comments)
	}

	return &Profile{
		User:     user,
		Streak:   current,
		Tier:     streak.Classify(current),
		Ledger:   ledger.Build(posts),
		Posts:    len(posts),
		Banner:   economy.BannerByID(user.EquippedBanner),
		Comments: comments,
	}, nil
}

// UpdateProfile обрезает пробелы, проверяет форму и применяет её.
// Пустое имя запрещено, пустое био разрешено (очистка).
func (s *Service) UpdateProfile(userID string, form ProfileForm) (store.User, error) {
	if !s.store.HasUser(userID) {
		return store.User{}, fmt.Errorf("ошибка обновления профиля: %w (id=%s)", common.ErrUserNotFound, userID)
	}

	if err := conform.Strings(&form); err != nil {
		return store.User{}, fmt.Errorf("ошибка нормализации профиля: %w", err)
	}
	if err := s.validateForm(form); err != nil {
		return store.User{}, err
	}

	patch := form.Patch()
	if patch.IsEmpty() {
		return s.store.User(userID)
	}

	s.store.Dispatch(store.UpdateProfile{UserID: userID, Patch: patch})

	log.WithFields(log.Fields{
		"user_id": userID,
		"form":    form.String(),
	}).Info("Профиль обновлён")

	return s.store.User(userID)
}

func (s *Service) validateForm(form ProfileForm) error {
	if form.HasName && form.Name == "" {
		return common.ErrEmptyName
	}

	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", common.ErrInvalidProfile, err)
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		return fmt.Errorf("%w: имя длиннее %d символов", common.ErrInvalidProfile, MaxNameLength)
	case "Bio":
		return fmt.Errorf("%w: био длиннее %d символов", common.ErrInvalidProfile, MaxBioLength)
	default:
		return fmt.Errorf("%w: поле %s", common.ErrInvalidProfile, fe.Field())
	}
}
