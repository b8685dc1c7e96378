// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
// Вне production переменные дополнительно подхватываются из .env (godotenv).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// EnvProduction — значение APP_ENV для боевого окружения.
const EnvProduction = "production"

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID чата, в котором бот работает (единственный разрешённый групповой чат)
	FloodChatID int64 `envconfig:"FLOOD_CHAT_ID" required:"true"`

	// --- Admin ---
	AdminIDsRaw       string  `envconfig:"ADMIN_IDS"`
	AdminIDs          []int64 `envconfig:"-"` // заполним вручную
	AdminPasswordHash string  `envconfig:"ADMIN_PASSWORD_HASH"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Data ---
	// YAML с демо-данными. Пусто — встроенный seed.
	SeedFile string `envconfig:"SEED_FILE"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Streak ---
	// Минимальный стрик, с которого шлём напоминание «огонёк гаснет»
	StreakReminderThreshold int `envconfig:"STREAK_REMINDER_THRESHOLD" default:"3"`

	// --- Karma ---
	// Сколько реакций в день может поставить один участник
	KarmaDailyLimit int `envconfig:"KARMA_DAILY_LIMIT" default:"10"`

	// --- Jobs ---
	JobsReminderSpec  string `envconfig:"JOBS_REMINDER_SPEC" default:"0 20 * * *"`
	JobsSuperWeekSpec string `envconfig:"JOBS_SUPER_WEEK_SPEC" default:"0 23 * * 6"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureStreaksEnabled bool `envconfig:"FEATURE_STREAKS_ENABLED" default:"true"`
	FeatureBannersEnabled bool `envconfig:"FEATURE_BANNERS_ENABLED" default:"true"`
	FeatureKarmaEnabled   bool `envconfig:"FEATURE_KARMA_ENABLED" default:"true"`
	FeatureJobsEnabled    bool `envconfig:"FEATURE_JOBS_ENABLED" default:"true"`
}

// IsProduction сообщает, запущен ли бот в боевом окружении.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if c.FloodChatID == 0 {
		return fmt.Errorf("FLOOD_CHAT_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS и RATE_LIMIT_WINDOW должны быть > 0")
	}
	if c.StreakReminderThreshold < 1 {
		return fmt.Errorf("STREAK_REMINDER_THRESHOLD должен быть >= 1")
	}
	if c.KarmaDailyLimit < 1 {
		return fmt.Errorf("KARMA_DAILY_LIMIT должен быть >= 1")
	}
	if len(c.AdminIDs) > 0 && c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_IDS задан, но ADMIN_PASSWORD_HASH пуст")
	}
	if _, err := log.ParseLevel(c.AppLogLevel); err != nil {
		return fmt.Errorf("APP_LOG_LEVEL: %w", err)
	}
	if _, err := time.LoadLocation(c.AppTimezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	for name, spec := range map[string]string{
		"JOBS_REMINDER_SPEC":   c.JobsReminderSpec,
		"JOBS_SUPER_WEEK_SPEC": c.JobsSuperWeekSpec,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	if !strings.EqualFold(os.Getenv("APP_ENV"), EnvProduction) {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Warn("Не удалось прочитать .env")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
