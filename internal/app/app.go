// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: строит хранилище из seed, сервисы, обработчики,
// фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/bot"
	"serotonyl.ru/gymshots/internal/bot/filters"
	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/config"
	"serotonyl.ru/gymshots/internal/features/admin"
	"serotonyl.ru/gymshots/internal/features/economy"
	"serotonyl.ru/gymshots/internal/features/karma"
	"serotonyl.ru/gymshots/internal/features/members"
	"serotonyl.ru/gymshots/internal/features/posts"
	"serotonyl.ru/gymshots/internal/features/streak"
	"serotonyl.ru/gymshots/internal/jobs"
	"serotonyl.ru/gymshots/internal/store"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	Store     *store.Store
	BotAPI    *telego.Bot
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Часовой пояс и хранилище ===
	loc := common.LoadLocation(cfg.AppTimezone)

	st, err := NewStore(cfg.SeedFile, time.Now())
	if err != nil {
		return nil, fmt.Errorf("ошибка подготовки данных: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := telego.NewBot(cfg.TelegramBotToken,
		telego.WithDefaultLogger(!cfg.IsProduction() && cfg.AppLogLevel == "debug", true),
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}

	me, err := botAPI.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка авторизации в Telegram: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	// === 3. Сервисы ===
	memberService := members.NewService(st)
	postsService := posts.NewService(st)
	streakService := streak.NewService(st, loc, cfg.StreakReminderThreshold)
	economyService := economy.NewService(st)
	karmaService := karma.NewService(st, postsService, cfg.KarmaDailyLimit, loc)
	adminService := admin.NewService(st, cfg.AdminIDs, cfg.AdminPasswordHash,
		admin.WithResetHook(karmaService.ClearReactions),
	)

	// === 4. Обработчики ===
	memberHandler := members.NewHandler(memberService, botAPI)
	postsHandler := posts.NewHandler(postsService, botAPI, loc)
	streakHandler := streak.NewHandler(streakService, botAPI)
	economyHandler := economy.NewHandler(economyService, botAPI)
	karmaHandler := karma.NewHandler(karmaService, botAPI)
	adminHandler := admin.NewHandler(adminService, botAPI)

	// === 5. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.FloodChatID, memberService, botAPI)

	// === 6. Собираем бота ===
	b := bot.New(
		botAPI, cfg, me.Username,
		memberService, memberHandler,
		postsHandler,
		streakHandler,
		economyHandler,
		karmaHandler,
		adminHandler,
		chatFilter,
	)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(streakService, loc, jobs.Schedule{
		Reminder:  cfg.JobsReminderSpec,
		SuperWeek: cfg.JobsSuperWeekSpec,
	}, cfg.FloodChatID, b.SendMessageToUser)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		Store:     st,
		BotAPI:    botAPI,
	}, nil
}

// NewStore строит хранилище из seed-файла (или встроенного seed, если путь пуст).
// Баннеры из seed должны существовать в каталоге.
func NewStore(seedFile string, now time.Time) (*store.Store, error) {
	seed := store.DefaultSeed()
	if seedFile != "" {
		loaded, err := store.LoadSeed(seedFile)
		if err != nil {
			return nil, err
		}
		seed = loaded
	}

	if err := validateSeedBanners(seed); err != nil {
		return nil, err
	}

	state, err := seed.BuildState(now)
	if err != nil {
		return nil, fmt.Errorf("некорректный seed: %w", err)
	}

	log.WithFields(log.Fields{
		"seed":  seedSource(seedFile),
		"users": len(state.Users),
		"posts": len(state.Posts),
	}).Info("Хранилище инициализировано")

	return store.New(state), nil
}

func validateSeedBanners(seed store.SeedConfig) error {
	for _, u := range seed.Users {
		ids := append([]string{u.EquippedBanner}, u.OwnedBanners...)
		for _, id := range ids {
			if id == "" {
				continue
			}
			if _, ok := economy.Lookup(id); !ok {
				return fmt.Errorf("пользователь %q: %w (%s)", u.ID, common.ErrUnknownBanner, id)
			}
		}
	}
	return nil
}

func seedSource(seedFile string) string {
	if seedFile == "" {
		return "builtin"
	}
	return seedFile
}
