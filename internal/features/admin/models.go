// Package admin реализует админ-доступ с парольной аутентификацией.
// models.go описывает сессии и попытки входа. Всё хранится в памяти процесса.
package admin

import "time"

// Параметры защиты входа
const (
	SessionTTL    = 24 * time.Hour // Время жизни сессии
	MaxAttempts   = 3              // Неудачных попыток до блокировки
	AttemptWindow = time.Hour      // Окно подсчёта неудачных попыток
)

// Session — активная сессия администратора.
type Session struct {
	TelegramID      int64
	Token           string
	AuthenticatedAt time.Time
	ExpiresAt       time.Time
	LastActivity    time.Time
}

// Expired проверяет, истекла ли сессия к моменту now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Stats — сводка по хранилищу для админа.
type Stats struct {
	Users    int
	Posts    int
	Comments int
	Sessions int
}
