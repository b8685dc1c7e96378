// Package karma — detector.go определяет, является ли сообщение реакцией.
package karma

import "strings"

// Reactions — допустимые реакции на посты.
var Reactions = []string{"💪", "🔥", "👏", "😤", "🫡", "🤩", "🤯", "🤔"}

// DefaultReaction ставится за «спасибо», «респект» и неизвестные эмодзи.
const DefaultReaction = "👏"

// DetectReaction проверяет, является ли текст реакцией, и возвращает эмодзи.
// Реакция — одно из Reactions или слово «спасибо»/«респект»/«+».
// Регистр не важен, пунктуация в конце допускается.
func DetectReaction(text string) (string, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), "\ufe0f", "")
	if IsReaction(cleaned) {
		return cleaned, true
	}

	cleaned = strings.ToLower(strings.TrimRight(cleaned, "!.,;:)"))
	switch cleaned {
	case "спасибо", "респект", "+":
		return DefaultReaction, true
	}
	return "", false
}

// IsReaction проверяет, входит ли эмодзи в список реакций.
func IsReaction(emoji string) bool {
	for _, r := range Reactions {
		if r == emoji {
			return true
		}
	}
	return false
}
