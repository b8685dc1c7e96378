// Package admin — handlers.go обрабатывает админ-команды:
// !login <пароль> (только в личке), !logout, !сброс, !стат.
package admin

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

// Handler обрабатывает админ-команды.
type Handler struct {
	service *Service
	bot     *telego.Bot
}

// NewHandler создаёт обработчик админ-команд.
func NewHandler(service *Service, bot *telego.Bot) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleLogin обрабатывает команду !login <пароль>.
// В общем чате пароль не принимается.
func (h *Handler) HandleLogin(ctx context.Context, chatID, telegramID int64, private bool, args []string) {
	if !h.service.IsAdmin(telegramID) {
		return
	}
	if !private {
		h.sendMessage(ctx, chatID, "🔐 Пароль принимается только в личных сообщениях")
		return
	}
	if len(args) == 0 {
		h.sendMessage(ctx, chatID, "🔐 Формат: !login <пароль>")
		return
	}

	if err := h.service.Login(telegramID, strings.Join(args, " ")); err != nil {
		h.sendMessage(ctx, chatID, "❌ "+err.Error())
		return
	}
	h.sendMessage(ctx, chatID, "✅ Аутентификация успешна! Доступны: !сброс, !стат, !logout")
}

// HandleLogout обрабатывает команду !logout.
func (h *Handler) HandleLogout(ctx context.Context, chatID, telegramID int64) {
	if !h.service.IsAdmin(telegramID) {
		return
	}
	h.service.Logout(telegramID)
	h.sendMessage(ctx, chatID, "👋 Сессия закрыта")
}

// HandleReset обрабатывает команду !сброс.
func (h *Handler) HandleReset(ctx context.Context, chatID, telegramID int64) {
	if err := h.service.Reset(telegramID); err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.sendMessage(ctx, chatID, "♻️ Данные сброшены к исходному состоянию")
}

// HandleStats обрабатывает команду !стат.
func (h *Handler) HandleStats(ctx context.Context, chatID, telegramID int64) {
	stats, err := h.service.Stats(telegramID)
	if err != nil {
		h.replyError(ctx, chatID, err)
		return
	}
	h.sendMessage(ctx, chatID, FormatStats(stats))
}

// FormatStats форматирует сводку по хранилищу.
func FormatStats(s Stats) string {
	return fmt.Sprintf("📊 Статистика\n\n👥 Пользователей: %s\n📸 Постов: %s\n💬 Комментариев: %s\n🔐 Сессий: %d",
		common.FormatNumber(int64(s.Users)),
		common.FormatNumber(int64(s.Posts)),
		common.FormatNumber(int64(s.Comments)),
		s.Sessions,
	)
}

func (h *Handler) replyError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, common.ErrNotAdmin):
		// Не админам не отвечаем
	case errors.Is(err, common.ErrSessionExpired):
		h.sendMessage(ctx, chatID, "🔐 "+err.Error()+": !login <пароль> в личке")
	default:
		log.WithError(err).Error("Ошибка админ-команды")
		h.sendMessage(ctx, chatID, "❌ "+err.Error())
	}
}

func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
