// Package karma реализует реакции на посты. Реакция — эмодзи в Impressions поста,
// карма участника — сумма реакций на все его посты.
// models.go описывает журнал выданных реакций.
package karma

import "time"

// Reaction — запись о реакции. Журнал живёт в памяти и нужен для лимитов.
type Reaction struct {
	FromUserID string
	PostID     string
	Emoji      string
	CreatedAt  time.Time
}

// Summary — карма участника.
type Summary struct {
	UserID   string
	Karma    int            // Всего реакций на посты
	Posts    int            // Постов с реакциями
	ByEmoji  map[string]int // Разбивка по эмодзи
	TopEmoji string         // Самая частая реакция
}
