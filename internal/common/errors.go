// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки участников и профиля
var (
	// ErrUserNotFound — пользователь не найден в хранилище
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrEmptyName — имя профиля не может быть пустым
	ErrEmptyName = errors.New("имя не может быть пустым")
	// ErrInvalidProfile — поля профиля не прошли валидацию (длина и т.п.)
	ErrInvalidProfile = errors.New("некорректные данные профиля")
)

// Ошибки постов
var (
	// ErrPostNotFound — пост с таким ID не найден
	ErrPostNotFound = errors.New("пост не найден")
	// ErrEmptyComment — пустой комментарий
	ErrEmptyComment = errors.New("комментарий не может быть пустым")
	// ErrNoPhoto — у «съёмки» нет фото
	ErrNoPhoto = errors.New("к посту нужно приложить фото")
)

// Ошибки реакций (кармы)
var (
	// ErrKarmaSelfGive — нельзя реагировать на свой пост
	ErrKarmaSelfGive = errors.New("нельзя реагировать на свой пост")
	// ErrKarmaDailyLimit — исчерпан дневной лимит реакций
	ErrKarmaDailyLimit = errors.New("дневной лимит реакций исчерпан")
	// ErrKarmaAlreadyGave — реакция на этот пост сегодня уже была
	ErrKarmaAlreadyGave = errors.New("ты уже реагировал на этот пост сегодня")
)

// Ошибки баннеров
var (
	// ErrUnknownBanner — баннера с таким ID нет в каталоге
	ErrUnknownBanner = errors.New("такого баннера нет в каталоге")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)
