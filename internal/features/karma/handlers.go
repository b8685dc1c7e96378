// Package karma — handlers.go обрабатывает команды !карма, !респект
// и реакции ответом на фото поста.
package karma

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
)

// Handler обрабатывает события кармы.
type Handler struct {
	service *Service
	bot     *telego.Bot
}

// NewHandler создаёт обработчик кармы.
func NewHandler(service *Service, bot *telego.Bot) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleKarma — команда !карма [@user].
func (h *Handler) HandleKarma(ctx context.Context, chatID int64, userID string) {
	sum, err := h.service.GetKarma(userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения кармы")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения кармы")
		return
	}
	h.sendMessage(ctx, chatID, FormatKarma(sum))
}

// HandleReply обрабатывает реакцию ответом на фото. Если фото — не пост, молчим.
func (h *Handler) HandleReply(ctx context.Context, chatID int64, fromUserID string, reply *telego.Message, emoji string) {
	if reply == nil || len(reply.Photo) == 0 {
		return
	}
	post, err := h.service.FindByImage(reply.Photo[len(reply.Photo)-1].FileID)
	if err != nil {
		return
	}

	if _, err := h.service.React(fromUserID, post.ID, emoji); err != nil {
		log.WithError(err).Debug("Реакция не засчитана")
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("%s +1 к карме!", emoji))
}

// HandleRespect — команда !респект <id поста> [эмодзи].
func (h *Handler) HandleRespect(ctx context.Context, chatID int64, fromUserID string, args []string) {
	if len(args) == 0 {
		h.sendMessage(ctx, chatID, "❌ Формат: !респект <id поста> [эмодзи]\nРеакции: "+strings.Join(Reactions, " "))
		return
	}

	emoji := DefaultReaction
	if len(args) > 1 {
		if e, ok := DetectReaction(args[1]); ok {
			emoji = e
		}
	}

	post, err := h.service.React(fromUserID, args[0], emoji)
	switch {
	case err == nil:
		h.sendMessage(ctx, chatID, fmt.Sprintf("%s +1 к карме! Реакций у поста: %d", emoji, len(post.Impressions)))
	case errors.Is(err, common.ErrPostNotFound):
		h.sendMessage(ctx, chatID, "❌ Пост не найден")
	case errors.Is(err, common.ErrKarmaSelfGive),
		errors.Is(err, common.ErrKarmaDailyLimit),
		errors.Is(err, common.ErrKarmaAlreadyGave):
		h.sendMessage(ctx, chatID, "❌ "+err.Error())
	default:
		log.WithError(err).Error("Ошибка реакции")
		h.sendMessage(ctx, chatID, "❌ Ошибка реакции")
	}
}

// FormatKarma форматирует карму участника.
func FormatKarma(s *Summary) string {
	if s.Karma == 0 {
		return "⭐ Карма: 0. Реакций на посты пока нет"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⭐ Карма: %s (постов с реакциями: %d)\n", common.FormatNumber(int64(s.Karma)), s.Posts)
	for _, e := range Reactions {
		if n := s.ByEmoji[e]; n > 0 {
			fmt.Fprintf(&b, "%s%d ", e, n)
		}
	}
	return strings.TrimSpace(b.String())
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
