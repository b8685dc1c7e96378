package bot

import "strings"

// CommandParser парсит русские команды с префиксами !, . и /
type CommandParser struct {
	validPrefixes []string
	botUsername   string
}

// NewCommandParser создаёт парсер команд. botUsername нужен, чтобы
// понимать команды вида /start@gymshots_bot в группах.
func NewCommandParser(botUsername string) *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
		botUsername:   strings.ToLower(botUsername),
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if name, mention, ok := strings.Cut(command, "@"); ok {
		// Команда адресована другому боту
		if p.botUsername != "" && mention != p.botUsername {
			return "", nil, false
		}
		command = name
	}
	// «огонёк» и «огонек» — одна команда
	command = strings.ReplaceAll(command, "ё", "е")

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
