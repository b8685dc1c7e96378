// Package bot содержит главный модуль бота — приём апдейтов и маршрутизацию команд.
// bot.go подключает обработчики фич и запускает long polling.
package bot

import (
	"context"
	"sync"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/bot/filters"
	"serotonyl.ru/gymshots/internal/bot/middleware"
	"serotonyl.ru/gymshots/internal/config"
	"serotonyl.ru/gymshots/internal/features/admin"
	"serotonyl.ru/gymshots/internal/features/economy"
	"serotonyl.ru/gymshots/internal/features/karma"
	"serotonyl.ru/gymshots/internal/features/members"
	"serotonyl.ru/gymshots/internal/features/posts"
	"serotonyl.ru/gymshots/internal/features/streak"
)

const helpText = `🏋️ Гимшоты — стрики тренировок

📸 Пришли фото тренировки с подписью «#leg Присед @Зал» — это пост.
Теги: #pull #push #leg #fullBody #cardio #broSplit

🔥 !огонек — твой стрик и ранг
📰 !лента [N] — последние посты
🏋️ !гимшоты [@user] — посты участника
🔎 !пост <id> — пост с комментариями
💬 !коммент <id> <текст> — комментарий
👤 !профиль [@user], !имя <текст>, !био <текст>
⭐ !карма [@user], !респект <id> [эмодзи] — или ответь эмодзи на фото поста
🎨 !баннеры, !купить <id>, !надеть <id>, !коллекция [@user]`

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *telego.Bot
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	memberHandler  *members.Handler
	postsHandler   *posts.Handler
	streakHandler  *streak.Handler
	economyHandler *economy.Handler
	karmaHandler   *karma.Handler
	adminHandler   *admin.Handler

	memberService *members.Service

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
	wg       sync.WaitGroup
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *telego.Bot,
	cfg *config.Config,
	botUsername string,
	memberService *members.Service,
	memberHandler *members.Handler,
	postsHandler *posts.Handler,
	streakHandler *streak.Handler,
	economyHandler *economy.Handler,
	karmaHandler *karma.Handler,
	adminHandler *admin.Handler,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:            api,
		cfg:            cfg,
		chatFilter:     chatFilter,
		rateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		memberHandler:  memberHandler,
		postsHandler:   postsHandler,
		streakHandler:  streakHandler,
		economyHandler: economyHandler,
		karmaHandler:   karmaHandler,
		adminHandler:   adminHandler,
		memberService:  memberService,
		parser:         NewCommandParser(botUsername),
		inflight:       make(chan struct{}, maxInFlight),
	}
}

// Start запускает long polling и блокируется до отмены ctx.
// Перед возвратом дожидается обработки уже принятых апдейтов.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: b.cfg.BotUpdateTimeoutSeconds,
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			return nil

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return nil
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			b.wg.Add(1)
			go func(upd telego.Update) {
				defer func() {
					<-b.inflight
					b.wg.Done()
				}()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// Close освобождает фоновые ресурсы бота.
func (b *Bot) Close() {
	b.rateLimiter.Close()
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	defer middleware.RecoverFromPanic(update.UpdateID)

	message := update.Message
	if message == nil {
		return
	}

	// Событие вступления в основной чат
	if len(message.NewChatMembers) > 0 {
		if message.Chat.ID == b.cfg.FloodChatID {
			b.memberHandler.HandleNewChatMembers(message.NewChatMembers)
		}
		return
	}

	if message.Text == "" && len(message.Photo) == 0 {
		return
	}

	middleware.LogMessage(message)

	// Проверяем доступ (FLOOD_CHAT_ID или DM участника)
	if !b.chatFilter.CheckAccess(ctx, message) {
		return
	}

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	userID, err := b.memberService.EnsureMember(message.From.ID,
		message.From.Username, message.From.FirstName, message.From.LastName,
	)
	if err != nil {
		log.WithError(err).WithField("telegram_id", message.From.ID).Warn("EnsureMember failed")
		return
	}

	// Реакция ответом на фото поста
	if b.cfg.FeatureKarmaEnabled && message.ReplyToMessage != nil && len(message.ReplyToMessage.Photo) > 0 {
		if emoji, ok := karma.DetectReaction(message.Text); ok {
			b.karmaHandler.HandleReply(ctx, message.Chat.ID, userID, message.ReplyToMessage, emoji)
			return
		}
	}

	// Фото — это пост
	if len(message.Photo) > 0 {
		b.postsHandler.HandleCapture(ctx, message.Chat.ID, userID, message)
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}

	log.WithFields(log.Fields{
		"cmd":     cmd,
		"args":    args,
		"user_id": userID,
	}).Debug("routing command")

	b.routeCommand(ctx, message, userID, cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *telego.Message, userID, cmd string, args []string) {
	chatID := message.Chat.ID
	telegramID := message.From.ID
	private := message.Chat.Type == telego.ChatTypePrivate

	switch cmd {
	case "start", "help", "помощь":
		b.sendMessage(ctx, chatID, helpText)

	case "огонек":
		if b.cfg.FeatureStreaksEnabled {
			b.streakHandler.HandleOgonek(ctx, chatID, userID)
		}

	case "лента":
		b.postsHandler.HandleFeed(ctx, chatID, args)

	case "гимшоты":
		if target, ok := b.resolveTarget(ctx, message, userID, args); ok {
			b.postsHandler.HandleGymshots(ctx, chatID, target)
		}

	case "пост":
		b.postsHandler.HandleDetail(ctx, chatID, args)

	case "коммент":
		b.postsHandler.HandleComment(ctx, chatID, userID, args)

	case "профиль":
		if target, ok := b.resolveTarget(ctx, message, userID, args); ok {
			b.memberHandler.HandleProfile(ctx, chatID, target)
		}

	case "имя":
		b.memberHandler.HandleSetName(ctx, chatID, userID, args)

	case "био":
		b.memberHandler.HandleSetBio(ctx, chatID, userID, args)

	case "карма":
		if b.cfg.FeatureKarmaEnabled {
			if target, ok := b.resolveTarget(ctx, message, userID, args); ok {
				b.karmaHandler.HandleKarma(ctx, chatID, target)
			}
		}

	case "респект":
		if b.cfg.FeatureKarmaEnabled {
			b.karmaHandler.HandleRespect(ctx, chatID, userID, args)
		}

	case "баннеры", "купить", "надеть", "коллекция":
		if !b.cfg.FeatureBannersEnabled {
			b.sendMessage(ctx, chatID, "🎨 Баннеры временно отключены")
			return
		}
		b.routeBanners(ctx, message, userID, cmd, args)

	case "login":
		b.adminHandler.HandleLogin(ctx, chatID, telegramID, private, args)

	case "logout":
		b.adminHandler.HandleLogout(ctx, chatID, telegramID)

	case "сброс":
		b.adminHandler.HandleReset(ctx, chatID, telegramID)

	case "стат":
		b.adminHandler.HandleStats(ctx, chatID, telegramID)
	}
}

func (b *Bot) routeBanners(ctx context.Context, message *telego.Message, userID, cmd string, args []string) {
	chatID := message.Chat.ID

	switch cmd {
	case "баннеры":
		b.economyHandler.HandleGallery(ctx, chatID, userID)
	case "купить":
		b.economyHandler.HandlePurchase(ctx, chatID, userID, args)
	case "надеть":
		b.economyHandler.HandleEquip(ctx, chatID, userID, args)
	case "коллекция":
		if target, ok := b.resolveTarget(ctx, message, userID, args); ok {
			b.economyHandler.HandleCollection(ctx, chatID, target)
		}
	}
}

// resolveTarget определяет, о ком команда: @user из аргументов,
// автор сообщения, на которое ответили, или сам отправитель.
func (b *Bot) resolveTarget(ctx context.Context, message *telego.Message, userID string, args []string) (string, bool) {
	if len(args) > 0 {
		u, err := b.memberService.Resolve(args[0])
		if err != nil {
			b.sendMessage(ctx, message.Chat.ID, "❌ Пользователь не найден")
			return "", false
		}
		return u.ID, true
	}

	if reply := message.ReplyToMessage; reply != nil && reply.From != nil && !reply.From.IsBot {
		if b.memberService.IsMember(reply.From.ID) {
			return members.UserID(reply.From.ID), true
		}
	}
	return userID, true
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessageToUser отправляет личное сообщение пользователю (для напоминаний).
func (b *Bot) SendMessageToUser(ctx context.Context, telegramID int64, text string) {
	if _, err := b.api.SendMessage(ctx, tu.Message(tu.ID(telegramID), text)); err != nil {
		log.WithError(err).WithField("telegram_id", telegramID).Debug("Не удалось отправить сообщение")
		return
	}
	log.WithField("telegram_id", telegramID).Debug("message sent")
}
