// Package economy — engine.go проверяет, можно ли купить или надеть баннер.
// Нарушенное условие — это не ошибка, а результат проверки (Outcome):
// обработчик показывает пользователю, чего не хватает.
package economy

import (
	"fmt"
	"strings"

	"serotonyl.ru/gymshots/internal/features/ledger"
	"serotonyl.ru/gymshots/internal/features/workouts"
)

// CostItem — одна позиция цены.
type CostItem struct {
	Category workouts.Category
	Count    int
}

// Items возвращает позиции цены в порядке категорий.
func (c Cost) Items() []CostItem {
	var items []CostItem
	for _, info := range workouts.Categories {
		if n, ok := c[info.Key]; ok && n > 0 {
			items = append(items, CostItem{Category: info.Key, Count: n})
		}
	}
	return items
}

// String форматирует цену: "🦵 3 Leg, 🏋️ 2 Push".
func (c Cost) String() string {
	items := c.Items()
	if len(items) == 0 {
		return "бесплатно"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s %d %s", it.Category.Emoji(), it.Count, it.Category.Label())
	}
	return strings.Join(parts, ", ")
}

// Evaluation — состояние баннера для конкретного пользователя.
type Evaluation struct {
	IsLocked   bool // Стрик ниже порога ранга
	IsOwned    bool
	IsEquipped bool
	CanAfford  bool // Накоплено достаточно по каждой категории цены
	Shortfall  Cost // Сколько не хватает по категориям (пусто, если хватает)
}

// Evaluate оценивает баннер для пользователя со стриком currentStreak,
// кошельком l, коллекцией owned и надетым баннером equipped.
func Evaluate(b Banner, currentStreak int, l ledger.Ledger, owned []string, equipped string) Evaluation {
	shortfall := make(Cost)
	for category, required := range b.Cost {
		if have := l.Count(category); have < required {
			shortfall[category] = required - have
		}
	}

	return Evaluation{
		IsLocked:   currentStreak < b.TierThreshold,
		IsOwned:    containsID(owned, b.ID),
		IsEquipped: equipped == b.ID,
		CanAfford:  len(shortfall) == 0,
		Shortfall:  shortfall,
	}
}

// Status — итог проверки покупки или экипировки.
type Status int

const (
	StatusOK Status = iota
	StatusLocked
	StatusAlreadyOwned
	StatusInsufficientCurrency
	StatusNotOwned
	StatusUnknownBanner
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusLocked:
		return "locked"
	case StatusAlreadyOwned:
		return "already_owned"
	case StatusInsufficientCurrency:
		return "insufficient_currency"
	case StatusNotOwned:
		return "not_owned"
	case StatusUnknownBanner:
		return "unknown_banner"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome — результат проверки с подробностями для сообщения пользователю.
type Outcome struct {
	Status    Status
	Banner    Banner
	Threshold int    // Порог ранга (для StatusLocked)
	TierName  string // Ранг (для StatusLocked)
	Shortfall Cost   // Нехватка (для StatusInsufficientCurrency)
}

// OK — проверка пройдена.
func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

// CheckPurchase проверяет условия покупки в порядке:
// ранг открыт → баннер ещё не куплен → хватает валюты.
func CheckPurchase(b Banner, e Evaluation) Outcome {
	switch {
	case e.IsLocked:
		return Outcome{Status: StatusLocked, Banner: b, Threshold: b.TierThreshold, TierName: b.Tier}
	case e.IsOwned:
		return Outcome{Status: StatusAlreadyOwned, Banner: b}
	case !e.CanAfford:
		return Outcome{Status: StatusInsufficientCurrency, Banner: b, Shortfall: e.Shortfall}
	default:
		return Outcome{Status: StatusOK, Banner: b}
	}
}

// CheckEquip проверяет, что баннер есть в коллекции.
// Надеть уже надетый баннер можно: это просто перезапись.
func CheckEquip(b Banner, e Evaluation) Outcome {
	if !e.IsOwned {
		return Outcome{Status: StatusNotOwned, Banner: b}
	}
	return Outcome{Status: StatusOK, Banner: b}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
