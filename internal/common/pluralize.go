// Package common — pluralize.go содержит вспомогательные функции
// для форматирования чисел и прогресса в ответах бота.
// Основная логика плюрализации реализована в helpers.go.
package common

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Рекурсивно добавляем разделители
	return fmt.Sprintf("%s %03d", FormatNumber(n/1000), n%1000)
}

// ProgressBar рисует текстовый прогресс-бар шириной width клеток.
// percent обрезается до диапазона [0, 100].
//
// Пример: ProgressBar(40, 10) → "▓▓▓▓░░░░░░"
func ProgressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

// Truncate обрезает строку до limit символов (рун), добавляя «...».
// Используется для логов и превью подписей в ленте.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
