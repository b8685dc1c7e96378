// Package posts — публикация фото тренировок, комментарии и лента.
// caption.go разбирает подпись к фото.
package posts

import "strings"

// Capture — разобранная подпись к фото.
type Capture struct {
	Caption  string
	Tag      string // Сырой тег без '#', нормализуется хранилищем
	Location string
}

// ParseCaption разбирает подпись вида "#тег текст @место".
//
// Правила:
//   - первый токен, начинающийся с '#', становится тегом и убирается из подписи;
//   - всё после первого токена, начинающегося с '@', становится местом;
//   - остальное (с нормализованными пробелами) — текст подписи.
//
// Пример: "#leg Squat day! @Gold Gym, LA" → {Caption: "Squat day!", Tag: "leg", Location: "Gold Gym, LA"}
func ParseCaption(text string) Capture {
	var c Capture
	words := strings.Fields(text)

	var rest []string
	for i, w := range words {
		if strings.HasPrefix(w, "@") {
			loc := append([]string{strings.TrimPrefix(w, "@")}, words[i+1:]...)
			c.Location = strings.TrimSpace(strings.Join(loc, " "))
			break
		}
		if c.Tag == "" && strings.HasPrefix(w, "#") && len(w) > 1 {
			c.Tag = strings.TrimPrefix(w, "#")
			continue
		}
		rest = append(rest, w)
	}

	c.Caption = strings.Join(rest, " ")
	return c
}
