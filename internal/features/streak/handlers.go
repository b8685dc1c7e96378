// Package streak — handlers.go обрабатывает команду !огонек.
// Показывает ранг, прогресс до следующего ранга и серию дней подряд.
package streak

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
)

// Handler обрабатывает команды стрик-системы.
type Handler struct {
	service *Service
	bot     *telego.Bot
}

// NewHandler создаёт новый обработчик стрик-команд.
func NewHandler(service *Service, bot *telego.Bot) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleOgonek обрабатывает команду !огонек.
//
// Формат ответа:
//
//	🔥 Огонек chill2
//	Стрик: 34 (Expert)
//	▓▓░░░░░░░░ 16% до Master (ещё 16)
//	Дней подряд: 2
//	✅ Сегодня тренировка есть
func (h *Handler) HandleOgonek(ctx context.Context, chatID int64, userID string) {
	progress, err := h.service.Progress(userID, time.Now())
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения стрика")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения данных стрика")
		return
	}

	h.sendMessage(ctx, chatID, FormatProgress(progress))
}

// FormatProgress форматирует прогресс пользователя для ответа бота.
func FormatProgress(p *Progress) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔥 Огонек %s\n\n", p.User.Name)
	fmt.Fprintf(&b, "Стрик: %d (%s)\n", p.Streak, p.Tier.Current.Name)

	if p.Tier.IsMaxTier {
		fmt.Fprintf(&b, "%s Максимальный ранг!\n", common.ProgressBar(100, 10))
	} else {
		fmt.Fprintf(&b, "%s %d%% до %s (ещё %d)\n",
			common.ProgressBar(p.Tier.Progress, 10), p.Tier.Progress,
			p.Tier.NextName(), p.Tier.Remaining(p.Streak))
	}

	fmt.Fprintf(&b, "Дней подряд: %d %s\n", p.DaysInRow, common.PluralizeDays(p.DaysInRow))

	switch {
	case p.PostedToday:
		b.WriteString("\n✅ Сегодня тренировка есть")
	case p.MissedThree:
		b.WriteString("\n😴 Три дня без тренировок. Пора возвращаться!")
	default:
		b.WriteString("\n📸 Сегодня ещё нет поста. Пришли фото тренировки!")
	}

	if p.SuperWeek {
		b.WriteString("\n⚡ Супер-стрик: тренировка каждый день этой недели!")
	}

	return b.String()
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
