// Package members управляет участниками: регистрацией пользователей Telegram,
// профилями и их редактированием.
// models.go описывает профиль и форму редактирования.
package members

import (
	"fmt"
	"strconv"
	"strings"

	"serotonyl.ru/gymshots/internal/features/economy"
	"serotonyl.ru/gymshots/internal/features/ledger"
	"serotonyl.ru/gymshots/internal/features/streak"
	"serotonyl.ru/gymshots/internal/store"
)

// telegramPrefix — префикс ID пользователей, пришедших из Telegram.
const telegramPrefix = "tg:"

// Лимиты профиля
const (
	MaxNameLength = 40
	MaxBioLength  = 150
)

// UserID возвращает ID пользователя хранилища для Telegram user ID.
func UserID(telegramID int64) string {
	return telegramPrefix + strconv.FormatInt(telegramID, 10)
}

// TelegramID извлекает Telegram user ID из ID пользователя.
// Для демо-пользователей из seed возвращает false.
func TelegramID(userID string) (int64, bool) {
	raw, ok := strings.CutPrefix(userID, telegramPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Profile — профиль пользователя со всеми производными данными.
type Profile struct {
	User     store.User
	Streak   int
	Tier     streak.TierInfo
	Ledger   ledger.Ledger
	Posts    int
	Banner   economy.Banner // Надетый баннер
	Comments int            // Комментариев под постами пользователя
}

// DisplayName возвращает отображаемое имя: @handle, если он есть.
func (p *Profile) DisplayName() string {
	if p.User.Handle != "" {
		return "@" + p.User.Handle
	}
	return p.User.Name
}

// ProfileForm — данные редактирования профиля.
// Has* отмечают, какие поля переданы: непереданные поля не меняются.
type ProfileForm struct {
	Name    string `conform:"trim" validate:"max=40"`
	Bio     string `conform:"trim" validate:"max=150"`
	HasName bool
	HasBio  bool
}

// Patch превращает форму в патч для хранилища.
func (f ProfileForm) Patch() store.ProfilePatch {
	var p store.ProfilePatch
	if f.HasName {
		name := f.Name
		p.Name = &name
	}
	if f.HasBio {
		bio := f.Bio
		p.Bio = &bio
	}
	return p
}

func (f ProfileForm) String() string {
	return fmt.Sprintf("name=%q(%v) bio=%q(%v)", f.Name, f.HasName, f.Bio, f.HasBio)
}
