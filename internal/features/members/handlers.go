// Package members — handlers.go обрабатывает команды профиля:
// !профиль, !имя, !био, а также вступление новых участников в чат.
package members

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

// Handler обрабатывает команды участников.
type Handler struct {
	service *Service
	bot     *telego.Bot
}

// NewHandler создаёт новый обработчик команд участников.
func NewHandler(service *Service, bot *telego.Bot) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleNewChatMembers регистрирует пользователей, вступивших в чат.
func (h *Handler) HandleNewChatMembers(newMembers []telego.User) {
	for _, user := range newMembers {
		if user.IsBot {
			continue
		}
		if _, err := h.service.EnsureMember(user.ID, user.Username, user.FirstName, user.LastName); err != nil {
			log.WithError(err).WithField("tg_id", user.ID).Error("Ошибка регистрации нового участника")
		}
	}
}

// HandleProfile обрабатывает команду !профиль [@user].
//
// Формат ответа:
//
//	👤 chill2 (@gymbro.me)
//	Chasing PRs.
//	🎽 Баннер: Starter [Common]
//	🔥 Стрик: 34 (Expert)
//	📸 Постов: 34, комментариев: 12
//	💰 Кошелёк: 💪 Pull: 6, ...
func (h *Handler) HandleProfile(ctx context.Context, chatID int64, userID string) {
	profile, err := h.service.GetProfile(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения профиля")
		h.sendMessage(ctx, chatID, "❌ Пользователь не найден")
		return
	}
	h.sendMessage(ctx, chatID, FormatProfile(profile))
}

// HandleSetName обрабатывает команду !имя <новое имя>.
func (h *Handler) HandleSetName(ctx context.Context, chatID int64, userID string, args []string) {
	form := ProfileForm{Name: strings.Join(args, " "), HasName: true}
	h.update(ctx, chatID, userID, form, "✅ Имя обновлено")
}

// HandleSetBio обрабатывает команду !био <текст>. Без текста био очищается.
func (h *Handler) HandleSetBio(ctx context.Context, chatID int64, userID string, args []string) {
	form := ProfileForm{Bio: strings.Join(args, " "), HasBio: true}
	h.update(ctx, chatID, userID, form, "✅ Био обновлено")
}

func (h *Handler) update(ctx context.Context, chatID int64, userID string, form ProfileForm, okText string) {
	user, err := h.service.UpdateProfile(userID, form)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmptyName), errors.Is(err, common.ErrInvalidProfile):
			h.sendMessage(ctx, chatID, "❌ "+err.Error())
		default:
			log.WithError(err).WithField("user_id", userID).Error("Ошибка обновления профиля")
			h.sendMessage(ctx, chatID, "❌ Ошибка обновления профиля")
		}
		return
	}
	h.sendMessage(ctx, chatID, fmt.Sprintf("%s: %s", okText, user.Name))
}

// FormatProfile форматирует профиль пользователя.
func FormatProfile(p *Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "👤 %s", p.User.Name)
	if p.User.Handle != "" {
		fmt.Fprintf(&b, " (@%s)", p.User.Handle)
	}
	if p.User.Bio != "" {
		fmt.Fprintf(&b, "\n%s", p.User.Bio)
	}

	fmt.Fprintf(&b, "\n\n🎽 Баннер: %s [%s]", p.Banner.Name, p.Banner.Rarity)
	fmt.Fprintf(&b, "\n🔥 Стрик: %d (%s)", p.Streak, p.Tier.Current.Name)
	fmt.Fprintf(&b, "\n📸 Постов: %d, %d %s", p.Posts, p.Comments, common.PluralizeComments(p.Comments))
	fmt.Fprintf(&b, "\n💰 Кошелёк: %s", p.Ledger)

	return b.String()
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
