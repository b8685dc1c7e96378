// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, работа с временем.
package common

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// pluralForm выбирает одну из трёх форм слова по правилам русского языка.
//
// Правила:
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → many (0, 5-20, 25-30, 100, ...)
func pluralForm(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
// Примеры:
//
//	PluralizeDays(1)  → "день"
//	PluralizeDays(3)  → "дня"
//	PluralizeDays(11) → "дней"
func PluralizeDays(n int) string {
	return pluralForm(n, "день", "дня", "дней")
}

// PluralizeWorkouts возвращает правильную форму слова «тренировка».
func PluralizeWorkouts(n int) string {
	return pluralForm(n, "тренировка", "тренировки", "тренировок")
}

// PluralizeComments возвращает правильную форму слова «комментарий».
func PluralizeComments(n int) string {
	return pluralForm(n, "комментарий", "комментария", "комментариев")
}

// FormatWorkouts форматирует количество тренировок в читабельную строку.
// Пример: FormatWorkouts(5) → "5 тренировок"
func FormatWorkouts(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeWorkouts(n))
}

// LoadLocation загружает часовой пояс по имени из конфига.
// Если tzdata недоступна (минимальный docker-образ) — используем UTC+3 вручную,
// как и раньше для Europe/Moscow.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).WithField("tz", name).Warn("Не удалось загрузить часовой пояс, используем UTC+3")
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// StartOfDay возвращает полночь того же дня в часовом поясе t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateKey возвращает ключ дня в формате 2006-01-02 для времени t в поясе loc.
// Используется для календаря тренировок.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" (день.месяц.год часы:минуты).
// Используется для отображения дат постов и комментариев.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01.2006 15:04")
}
