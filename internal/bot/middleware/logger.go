// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
)

// LogMessage логирует входящее сообщение.
// Записывает: user_id, chat_id, username, текст или подпись (первые 50 символов), наличие фото.
func LogMessage(message *telego.Message) {
	if message == nil || message.From == nil {
		return
	}

	text := message.Text
	if text == "" {
		text = message.Caption
	}

	log.WithFields(log.Fields{
		"user_id":  message.From.ID,
		"chat_id":  message.Chat.ID,
		"username": message.From.Username,
		"text":     common.Truncate(text, 50),
		"photo":    len(message.Photo) > 0,
	}).Debug("Входящее сообщение")
}
