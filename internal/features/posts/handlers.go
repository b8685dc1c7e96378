// Package posts — handlers.go обрабатывает фото тренировок и команды:
// !лента, !гимшоты, !пост, !коммент.
package posts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/features/streak"
	"serotonyl.ru/gymshots/internal/store"
)

// Лимиты ленты
const (
	defaultFeedLimit = 10
	maxFeedLimit     = 30
	shortIDLength    = 8
)

// Handler обрабатывает команды постов.
type Handler struct {
	service *Service
	bot     *telego.Bot
	loc     *time.Location
}

// NewHandler создаёт новый обработчик постов.
func NewHandler(service *Service, bot *telego.Bot, loc *time.Location) *Handler {
	return &Handler{service: service, bot: bot, loc: loc}
}

// HandleCapture публикует фото из сообщения.
// Берётся самое большое превью фото, подпись разбирается ParseCaption.
func (h *Handler) HandleCapture(ctx context.Context, chatID int64, userID string, msg *telego.Message) {
	if len(msg.Photo) == 0 {
		h.sendMessage(ctx, chatID, "❌ "+common.ErrNoPhoto.Error())
		return
	}
	photo := msg.Photo[len(msg.Photo)-1]

	post, err := h.service.Capture(userID, photo.FileID, msg.Caption)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка публикации поста")
		h.sendMessage(ctx, chatID, "❌ Не удалось опубликовать пост")
		return
	}

	h.sendMessage(ctx, chatID, FormatCaptured(post))
}

// HandleFeed обрабатывает команду !лента [N].
func (h *Handler) HandleFeed(ctx context.Context, chatID int64, args []string) {
	limit := defaultFeedLimit
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			limit = min(n, maxFeedLimit)
		}
	}

	items := h.service.Feed(limit)
	if len(items) == 0 {
		h.sendMessage(ctx, chatID, "📭 Лента пуста. Пришли фото тренировки!")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📰 Лента (%d)\n", len(items))
	for _, it := range items {
		fmt.Fprintf(&b, "\n%s", FormatFeedLine(it, h.loc))
	}
	h.sendMessage(ctx, chatID, b.String())
}

// HandleGymshots обрабатывает команду !гимшоты [@user].
func (h *Handler) HandleGymshots(ctx context.Context, chatID int64, userID string) {
	posts, err := h.service.Gymshots(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения постов")
		h.sendMessage(ctx, chatID, "❌ Пользователь не найден")
		return
	}
	if len(posts) == 0 {
		h.sendMessage(ctx, chatID, "📭 Постов пока нет")
		return
	}

	shown := posts
	if len(shown) > maxFeedLimit {
		shown = shown[:maxFeedLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏋️ Гимшоты: %d\n", len(posts))
	for _, p := range shown {
		fmt.Fprintf(&b, "\n%s %s · 🔥%d · %s", p.Tag.Emoji(), ShortID(p.ID), p.Streak, common.FormatDateTime(p.CreatedAt, h.loc))
	}
	if len(posts) > len(shown) {
		fmt.Fprintf(&b, "\n… и ещё %d", len(posts)-len(shown))
	}
	h.sendMessage(ctx, chatID, b.String())
}

// HandleDetail обрабатывает команду !пост <id>.
func (h *Handler) HandleDetail(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(ctx, chatID, "❌ Формат: !пост <id>")
		return
	}

	item, err := h.service.Detail(args[0])
	if err != nil {
		h.replyPostError(ctx, chatID, err)
		return
	}
	h.sendMessage(ctx, chatID, FormatDetail(item, h.loc))
}

// HandleComment обрабатывает команду !коммент <id> <текст>.
func (h *Handler) HandleComment(ctx context.Context, chatID int64, userID string, args []string) {
	if len(args) < 2 {
		h.sendMessage(ctx, chatID, "❌ Формат: !коммент <id поста> <текст>")
		return
	}

	post, err := h.service.Comment(userID, args[0], strings.Join(args[1:], " "))
	if err != nil {
		h.replyPostError(ctx, chatID, err)
		return
	}

	h.sendMessage(ctx, chatID, fmt.Sprintf("💬 Комментарий добавлен (%d %s под постом)",
		len(post.Comments), common.PluralizeComments(len(post.Comments))))
}

func (h *Handler) replyPostError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, common.ErrPostNotFound):
		h.sendMessage(ctx, chatID, "❌ Пост не найден")
	case errors.Is(err, common.ErrEmptyComment):
		h.sendMessage(ctx, chatID, "❌ "+common.ErrEmptyComment.Error())
	default:
		log.WithError(err).Error("Ошибка обработки поста")
		h.sendMessage(ctx, chatID, "❌ Ошибка обработки поста")
	}
}

// ShortID сокращает ID поста для отображения.
func ShortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// FormatCaptured — ответ на публикацию. Сообщает о новом ранге, если он открылся.
func FormatCaptured(p store.Post) string {
	tier := streak.Classify(p.Streak)

	var b strings.Builder
	fmt.Fprintf(&b, "📸 Пост опубликован! id: %s\n", ShortID(p.ID))
	fmt.Fprintf(&b, "%s %s · 🔥 Стрик: %d (%s)", p.Tag.Emoji(), p.Tag.Label(), p.Streak, tier.Current.Name)

	if prev := streak.Classify(p.Streak - 1); prev.Current.Name != tier.Current.Name {
		fmt.Fprintf(&b, "\n🎉 Новый ранг: %s! Загляни в !баннеры", tier.Current.Name)
	}
	return b.String()
}

// FormatFeedLine — одна строка ленты.
func FormatFeedLine(it Item, loc *time.Location) string {
	p := it.Post
	line := fmt.Sprintf("%s %s · %s · 🔥%d · %s", p.Tag.Emoji(), it.Author.Name, ShortID(p.ID), p.Streak, common.FormatDateTime(p.CreatedAt, loc))
	if p.Caption != "" {
		line += "\n   " + common.Truncate(p.Caption, 60)
	}
	return line
}

// FormatDetail — пост целиком с комментариями.
func FormatDetail(it Item, loc *time.Location) string {
	p := it.Post

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s) · %s\n", p.Tag.Emoji(), it.Author.Name, p.Label, common.FormatDateTime(p.CreatedAt, loc))
	fmt.Fprintf(&b, "🔥 Стрик: %d · %s\n", p.Streak, p.Tag.Label())
	if p.Caption != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Caption)
	}
	if p.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", p.Location)
	}
	if len(p.Impressions) > 0 {
		fmt.Fprintf(&b, "%s\n", strings.Join(p.Impressions, ""))
	}

	fmt.Fprintf(&b, "\n💬 %d %s", len(p.Comments), common.PluralizeComments(len(p.Comments)))
	for _, c := range p.Comments {
		fmt.Fprintf(&b, "\n%s: %s", c.UserName, c.Text)
	}
	return b.String()
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
