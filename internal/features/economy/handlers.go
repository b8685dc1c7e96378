// Package economy — handlers.go обрабатывает команды:
// !баннеры (галерея), !купить, !надеть, !коллекция.
package economy

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/features/streak"
)

// Handler обрабатывает команды баннеров.
type Handler struct {
	service *Service
	bot     *telego.Bot
}

// NewHandler создаёт новый обработчик команд баннеров.
func NewHandler(service *Service, bot *telego.Bot) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleGallery обрабатывает команду !баннеры — галерея по рангам.
func (h *Handler) HandleGallery(ctx context.Context, chatID int64, userID string) {
	gallery, err := h.service.Gallery(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения галереи")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения баннеров")
		return
	}
	h.sendMessage(ctx, chatID, FormatGallery(gallery))
}

// HandlePurchase обрабатывает команду !купить <id>.
func (h *Handler) HandlePurchase(ctx context.Context, chatID int64, userID string, args []string) {
	if len(args) == 0 {
		h.sendMessage(ctx, chatID, "❌ Формат: !купить <id баннера>")
		return
	}

	outcome, err := h.service.Purchase(userID, strings.ToLower(args[0]))
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка покупки баннера")
		h.sendMessage(ctx, chatID, "❌ Ошибка покупки баннера")
		return
	}
	h.sendMessage(ctx, chatID, FormatPurchase(outcome))
}

// HandleEquip обрабатывает команду !надеть <id>.
func (h *Handler) HandleEquip(ctx context.Context, chatID int64, userID string, args []string) {
	if len(args) == 0 {
		h.sendMessage(ctx, chatID, "❌ Формат: !надеть <id баннера>")
		return
	}

	outcome, err := h.service.Equip(userID, strings.ToLower(args[0]))
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка экипировки баннера")
		h.sendMessage(ctx, chatID, "❌ Ошибка экипировки баннера")
		return
	}
	h.sendMessage(ctx, chatID, FormatEquip(outcome))
}

// HandleCollection обрабатывает команду !коллекция [@user].
func (h *Handler) HandleCollection(ctx context.Context, chatID int64, userID string) {
	banners, err := h.service.Collection(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения коллекции")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения коллекции")
		return
	}
	wallet, err := h.service.Wallet(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка получения кошелька")
		h.sendMessage(ctx, chatID, "❌ Ошибка получения коллекции")
		return
	}
	h.sendMessage(ctx, chatID, FormatCollection(wallet, banners))
}

// FormatGallery форматирует галерею.
//
// Пример:
//
//	🎨 Баннеры
//	Стрик: 3 (Novice)
//	Кошелёк: 🦵 Leg: 2
//	Надет: Starter
//
//	✅ Novice (стрик 1+)
//	  🛒 novice-sky: Sky Blue [Common], не хватает 🦵 1 Leg
//	🔒 Intermediate (стрик 6+)
func FormatGallery(g *Gallery) string {
	var b strings.Builder

	b.WriteString("🎨 Баннеры\n")
	fmt.Fprintf(&b, "Стрик: %d (%s)\n", g.Wallet.Streak, streak.Classify(g.Wallet.Streak).Current.Name)
	fmt.Fprintf(&b, "Кошелёк: %s\n", g.Wallet.Ledger)
	fmt.Fprintf(&b, "Надет: %s\n", g.Equipped.Name)

	for _, t := range g.Tiers {
		if !t.Unlocked {
			fmt.Fprintf(&b, "\n🔒 %s (стрик %d+)", t.Tier.Name, t.Tier.Threshold)
			continue
		}
		fmt.Fprintf(&b, "\n✅ %s (стрик %d+)", t.Tier.Name, t.Tier.Threshold)
		for _, item := range t.Items {
			fmt.Fprintf(&b, "\n  %s", formatItem(item))
		}
	}

	return b.String()
}

func formatItem(item GalleryItem) string {
	bn, e := item.Banner, item.Evaluation
	head := fmt.Sprintf("%s: %s [%s]", bn.ID, bn.Name, bn.Rarity)

	switch {
	case e.IsEquipped:
		return "🎽 " + head + ", надет"
	case e.IsOwned:
		return "✔️ " + head + ", в коллекции"
	case e.CanAfford:
		return "🛒 " + head + ", можно купить за " + bn.Cost.String()
	default:
		return "🛒 " + head + ", не хватает " + e.Shortfall.String()
	}
}

// FormatPurchase форматирует результат покупки.
func FormatPurchase(o Outcome) string {
	switch o.Status {
	case StatusOK:
		return fmt.Sprintf("✅ Баннер «%s» куплен!\nНадеть: !надеть %s", o.Banner.Name, o.Banner.ID)
	case StatusLocked:
		return fmt.Sprintf("🔒 Достигни ранга %s (стрик %d), чтобы открыть «%s»!", o.TierName, o.Threshold, o.Banner.Name)
	case StatusAlreadyOwned:
		return fmt.Sprintf("ℹ️ Баннер «%s» уже в коллекции", o.Banner.Name)
	case StatusInsufficientCurrency:
		return fmt.Sprintf("❌ Не хватает тренировок для «%s»:\n%s", o.Banner.Name, formatShortfall(o.Shortfall))
	case StatusUnknownBanner:
		return "❌ " + common.ErrUnknownBanner.Error()
	default:
		return "❌ Покупка невозможна"
	}
}

// FormatEquip форматирует результат экипировки.
func FormatEquip(o Outcome) string {
	switch o.Status {
	case StatusOK:
		return fmt.Sprintf("🎽 Баннер «%s» надет!", o.Banner.Name)
	case StatusNotOwned:
		return fmt.Sprintf("❌ Баннера «%s» нет в коллекции. Сначала купи: !купить %s", o.Banner.Name, o.Banner.ID)
	case StatusUnknownBanner:
		return "❌ " + common.ErrUnknownBanner.Error()
	default:
		return "❌ Не получилось надеть баннер"
	}
}

// FormatCollection форматирует коллекцию баннеров пользователя.
func FormatCollection(w Wallet, banners []Banner) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🖼 Коллекция %s (%d)\n", w.User.Name, len(banners))
	for _, bn := range banners {
		mark := "•"
		if bn.ID == w.User.EquippedBanner {
			mark = "🎽"
		}
		fmt.Fprintf(&b, "\n%s %s: %s [%s] (%s)", mark, bn.ID, bn.Name, bn.Rarity, bn.Tier)
	}
	return b.String()
}

// formatShortfall — по строке на категорию: "🦵 ещё 1 Leg".
func formatShortfall(c Cost) string {
	items := c.Items()
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("%s ещё %d %s", it.Category.Emoji(), it.Count, it.Category.Label())
	}
	return strings.Join(lines, "\n")
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
