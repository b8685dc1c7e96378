//go:build ignore

// generate_hash.go — утилита для генерации Argon2id хеша пароля администратора.
// Запуск: go run scripts/generate_hash.go ваш_пароль
//
// Результат вставьте в .env как ADMIN_PASSWORD_HASH.
package main

import (
	"fmt"
	"os"
	"strings"

	"serotonyl.ru/gymshots/internal/features/admin"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Использование: go run scripts/generate_hash.go <пароль>")
		os.Exit(1)
	}

	password := strings.Join(os.Args[1:], " ")
	if err := admin.ValidatePassword(password); err != nil {
		fmt.Printf("Ошибка: %v\n", err)
		os.Exit(1)
	}

	hash, err := admin.HashPassword(password)
	if err != nil {
		fmt.Printf("Ошибка: %v\n", err)
		os.Exit(1)
	}

	if !admin.VerifyPassword(password, hash) {
		fmt.Println("Ошибка: хеш не прошёл самопроверку")
		os.Exit(1)
	}

	fmt.Println("Хеш пароля (вставьте в .env как ADMIN_PASSWORD_HASH):")
	fmt.Println(hash)
}
