// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: вечерние напоминания тем, чей стрик
// под угрозой, и поздравления с «супер-неделей».
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/features/members"
	"serotonyl.ru/gymshots/internal/features/streak"
)

// SendFunc отправляет сообщение в чат Telegram.
type SendFunc func(ctx context.Context, chatID int64, text string)

// Schedule — cron-выражения задач (стандартный 5-польный формат).
type Schedule struct {
	Reminder  string // Напоминания, по умолчанию 20:00 каждый день
	SuperWeek string // Поздравления, по умолчанию суббота 23:00
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron          *cron.Cron
	loc           *time.Location
	schedule      Schedule
	streakService *streak.Service
	floodChatID   int64
	send          SendFunc
}

// NewScheduler создаёт планировщик задач в часовом поясе loc.
func NewScheduler(streakService *streak.Service, loc *time.Location, schedule Schedule, floodChatID int64, send SendFunc) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		loc:           loc,
		schedule:      schedule,
		streakService: streakService,
		floodChatID:   floodChatID,
		send:          send,
	}
}

// Start регистрирует и запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule.Reminder, func() {
		log.Info("[CRON] Напоминания о стриках")
		s.SendReminders(ctx, time.Now())
	}); err != nil {
		return fmt.Errorf("ошибка регистрации напоминаний: %w", err)
	}

	if _, err := s.cron.AddFunc(s.schedule.SuperWeek, func() {
		log.Info("[CRON] Поздравления с супер-неделей")
		s.CongratulateSuperWeek(ctx, time.Now())
	}); err != nil {
		return fmt.Errorf("ошибка регистрации поздравлений: %w", err)
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"tz":         s.loc.String(),
		"reminder":   s.schedule.Reminder,
		"super_week": s.schedule.SuperWeek,
	}).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и дожидается выполняющихся задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// SendReminders пишет в личку участникам, которые сегодня ещё без поста.
// Возвращает количество отправленных напоминаний.
func (s *Scheduler) SendReminders(ctx context.Context, now time.Time) int {
	sent := 0
	for _, st := range s.streakService.AtRisk(now) {
		telegramID, ok := members.TelegramID(st.User.ID)
		if !ok {
			continue
		}
		s.send(ctx, telegramID, FormatReminder(st))
		sent++
	}

	log.WithField("sent", sent).Debug("[CRON] Напоминания отправлены")
	return sent
}

// CongratulateSuperWeek поздравляет участников, которые тренировались каждый день недели:
// общий список в основной чат и личное сообщение каждому.
func (s *Scheduler) CongratulateSuperWeek(ctx context.Context, now time.Time) int {
	winners := s.streakService.SuperStreakers(now)
	if len(winners) == 0 {
		return 0
	}

	if s.floodChatID != 0 {
		s.send(ctx, s.floodChatID, FormatSuperWeek(winners))
	}
	for _, st := range winners {
		if telegramID, ok := members.TelegramID(st.User.ID); ok {
			s.send(ctx, telegramID, fmt.Sprintf("🏆 %s, супер-неделя! 7 из 7 дней с тренировкой. Стрик: %d", st.User.Name, st.Streak))
		}
	}

	log.WithField("winners", len(winners)).Info("[CRON] Супер-неделя")
	return len(winners)
}

// FormatReminder — текст напоминания о стрике.
func FormatReminder(st streak.Standing) string {
	return fmt.Sprintf("🔥 %s, огонёк гаснет! Стрик %d, а сегодня ещё нет поста.\nПришли фото тренировки, чтобы не потерять ранг %s.",
		st.User.Name, st.Streak, streak.Classify(st.Streak).Current.Name)
}

// FormatSuperWeek — общий список участников с супер-неделей.
func FormatSuperWeek(winners []streak.Standing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Супер-неделя! Тренировки каждый день (%s):\n", common.FormatWorkouts(7))
	for i, st := range winners {
		fmt.Fprintf(&b, "\n%d. %s · 🔥%d", i+1, st.User.Name, st.Streak)
	}
	return b.String()
}
