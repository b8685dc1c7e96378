// Package admin — service.go содержит логику аутентификации, управления сессиями
// и админ-действия над хранилищем.
package admin

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	goval "github.com/go-passwd/validator"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/store"
)

// Параметры Argon2id для новых хешей
const (
	argonMemory      uint32 = 65536 // 64 MB
	argonIterations  uint32 = 3
	argonParallelism uint8  = 2
	argonKeyLength   uint32 = 32
	argonSaltLength         = 16
)

// Ограничения на пароль администратора
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Service управляет админ-доступом.
type Service struct {
	store        *store.Store
	adminIDs     map[int64]bool
	passwordHash string
	now          func() time.Time

	mu       sync.Mutex
	sessions map[int64]*Session
	failures map[int64][]time.Time // Неудачные попытки входа

	onReset []func() // Вызываются после сброса хранилища
}

// Option настраивает Service.
type Option func(*Service)

// WithResetHook регистрирует функции, которые вызываются после !сброс:
// сервисы с собственным состоянием в памяти сбрасывают его вслед за хранилищем.
func WithResetHook(hooks ...func()) Option {
	return func(s *Service) { s.onReset = append(s.onReset, hooks...) }
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService создаёт админ-сервис. adminIDs — Telegram ID администраторов.
func NewService(st *store.Store, adminIDs []int64, passwordHash string, opts ...Option) *Service {
	s := &Service{
		store:        st,
		adminIDs:     make(map[int64]bool, len(adminIDs)),
		passwordHash: passwordHash,
		now:          time.Now,
		sessions:     make(map[int64]*Session),
		failures:     make(map[int64][]time.Time),
	}
	for _, id := range adminIDs {
		s.adminIDs[id] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsAdmin проверяет, входит ли пользователь в список администраторов.
func (s *Service) IsAdmin(telegramID int64) bool {
	return s.adminIDs[telegramID]
}

// Login проверяет пароль администратора и открывает сессию на 24 часа.
// Защита от brute-force: 3 неудачные попытки за час = блокировка.
func (s *Service) Login(telegramID int64, password string) error {
	if !s.IsAdmin(telegramID) {
		return common.ErrNotAdmin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	recent := s.recentFailures(telegramID, now)
	if len(recent) >= MaxAttempts {
		log.WithField("telegram_id", telegramID).Warn("Вход заблокирован: слишком много попыток")
		return common.ErrTooManyAttempts
	}

	if !VerifyPassword(password, s.passwordHash) {
		s.failures[telegramID] = append(recent, now)
		log.WithFields(log.Fields{
			"telegram_id": telegramID,
			"attempts":    len(s.failures[telegramID]),
		}).Warn("Неверный пароль администратора")
		return common.ErrWrongPassword
	}

	delete(s.failures, telegramID)
	s.sessions[telegramID] = &Session{
		TelegramID:      telegramID,
		Token:           generateSecureToken(),
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(SessionTTL),
		LastActivity:    now,
	}

	log.WithField("telegram_id", telegramID).Info("Администратор авторизован")
	return nil
}

// Logout закрывает сессию.
func (s *Service) Logout(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, telegramID)
}

// HasActiveSession проверяет, есть ли у пользователя активная сессия,
// и отмечает активность.
func (s *Service) HasActiveSession(telegramID int64) bool {
	return s.touch(telegramID) == nil
}

// Reset возвращает хранилище к seed-состоянию. Требует активной сессии.
func (s *Service) Reset(telegramID int64) error {
	if err := s.touch(telegramID); err != nil {
		return err
	}

	state := s.store.Dispatch(store.Reset{})
	for _, hook := range s.onReset {
		hook()
	}
	log.WithFields(log.Fields{
		"telegram_id": telegramID,
		"posts":       len(state.Posts),
		"users":       len(state.Users),
	}).Warn("Хранилище сброшено к seed")
	return nil
}

// Stats возвращает сводку по хранилищу. Требует активной сессии.
func (s *Service) Stats(telegramID int64) (Stats, error) {
	if err := s.touch(telegramID); err != nil {
		return Stats{}, err
	}

	state := s.store.Snapshot()
	stats := Stats{Users: len(state.Users), Posts: len(state.Posts)}
	for _, p := range state.Posts {
		stats.Comments += len(p.Comments)
	}

	s.mu.Lock()
	stats.Sessions = len(s.sessions)
	s.mu.Unlock()
	return stats, nil
}

// touch проверяет права и сессию, продлевая LastActivity.
func (s *Service) touch(telegramID int64) error {
	if !s.IsAdmin(telegramID) {
		return common.ErrNotAdmin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session, ok := s.sessions[telegramID]
	if !ok {
		return common.ErrSessionExpired
	}
	if session.Expired(now) {
		delete(s.sessions, telegramID)
		return common.ErrSessionExpired
	}
	session.LastActivity = now
	return nil
}

// recentFailures возвращает неудачные попытки за последний час. Вызывать под s.mu.
func (s *Service) recentFailures(telegramID int64, now time.Time) []time.Time {
	cutoff := now.Add(-AttemptWindow)

	var recent []time.Time
	for _, t := range s.failures[telegramID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}

// --- Криптографические утилиты ---

// ValidatePassword проверяет, что пароль администратора достаточной длины.
func ValidatePassword(password string) error {
	v := goval.New(
		goval.MinLength(MinPasswordLength, fmt.Errorf("пароль короче %d символов", MinPasswordLength)),
		goval.MaxLength(MaxPasswordLength, fmt.Errorf("пароль длиннее %d символов", MaxPasswordLength)),
	)
	return v.Validate(password)
}

// HashPassword вычисляет Argon2id-хеш пароля со случайной солью.
// Формат: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("ошибка генерации соли: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonIterations, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword проверяет пароль по хешу Argon2id.
func VerifyPassword(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}

// generateSecureToken генерирует случайный токен сессии.
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}
