// Package filters решает, обрабатывать ли сообщение: бот работает
// только в основном чате и в личке участников этого чата.
package filters

import (
	"context"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/features/members"
)

// ChatFilter проверяет доступ к боту.
type ChatFilter struct {
	floodChatID   int64
	memberService *members.Service
	bot           *telego.Bot
}

// NewChatFilter создаёт фильтр чатов.
func NewChatFilter(floodChatID int64, memberService *members.Service, bot *telego.Bot) *ChatFilter {
	return &ChatFilter{
		floodChatID:   floodChatID,
		memberService: memberService,
		bot:           bot,
	}
}

// CheckAccess возвращает true, если сообщение нужно обработать.
func (f *ChatFilter) CheckAccess(ctx context.Context, message *telego.Message) bool {
	if message == nil {
		log.WithField("component", "ChatFilter").Warn("nil message")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Warn("nil message.From (service/channel message?)")
		return false
	}
	if message.From.IsBot {
		return false
	}
	if f.floodChatID == 0 {
		log.WithField("component", "ChatFilter").Error("floodChatID is 0 (config bug)")
		return false
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	logger := log.WithFields(log.Fields{
		"component":     "ChatFilter",
		"chat_id":       chatID,
		"chat_type":     message.Chat.Type,
		"user_id":       userID,
		"flood_chat_id": f.floodChatID,
	})

	// 1) Разрешённый чат
	if chatID == f.floodChatID {
		logger.Debug("allow: flood chat")
		return true
	}

	// 2) Личка: сначала по хранилищу
	if message.Chat.Type == telego.ChatTypePrivate {
		if f.memberService.IsMember(userID) {
			logger.Debug("allow: private (known member)")
			return true
		}
		return f.checkTelegramMember(ctx, message, logger)
	}

	// 3) Остальные чаты игнорируем
	logger.Info("deny: not flood chat and not private")
	return false
}

// checkTelegramMember спрашивает Telegram, состоит ли пользователь в основном чате.
func (f *ChatFilter) checkTelegramMember(ctx context.Context, message *telego.Message, logger *log.Entry) bool {
	if f.bot == nil {
		logger.Error("bot is nil")
		return false
	}

	cm, err := f.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: tu.ID(f.floodChatID),
		UserID: message.From.ID,
	})
	if err != nil {
		logger.WithError(err).Error("member check failed (telegram GetChatMember)")
		return false
	}

	status := cm.MemberStatus()
	if !IsActiveStatus(status) {
		logger.WithField("tg_status", status).Info("deny: private (not a chat member)")
		if _, sendErr := f.bot.SendMessage(ctx, tu.Message(tu.ID(message.Chat.ID),
			"❌ Бот работает только для участников основного чата")); sendErr != nil {
			logger.WithError(sendErr).Warn("failed to send deny message")
		}
		return false
	}

	if _, err := f.memberService.EnsureMember(
		message.From.ID,
		message.From.Username,
		message.From.FirstName,
		message.From.LastName,
	); err != nil {
		logger.WithError(err).Warn("failed to register member (allowing anyway)")
	}
	logger.WithField("tg_status", status).Info("allow: private (telegram member, registered)")
	return true
}

// IsActiveStatus сообщает, является ли статус участника Telegram активным членством.
func IsActiveStatus(status string) bool {
	switch status {
	case telego.MemberStatusCreator, telego.MemberStatusAdministrator,
		telego.MemberStatusMember, telego.MemberStatusRestricted:
		return true
	}
	return false
}
