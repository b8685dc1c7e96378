// Package streak — classifier.go определяет ранг по стрику
// и прогресс до следующего ранга.
package streak

import "math"

// TierInfo — результат классификации стрика.
type TierInfo struct {
	Current      Tier
	Next         *Tier // nil, если достигнут максимальный ранг
	CurrentColor string
	NextColor    string // Совпадает с CurrentColor на максимальном ранге
	Progress     int    // Прогресс до следующего ранга, 0..100
	IsMaxTier    bool
}

// NextName возвращает название следующего ранга или "", если его нет.
func (i TierInfo) NextName() string {
	if i.Next == nil {
		return ""
	}
	return i.Next.Name
}

// Remaining — сколько постов осталось до следующего ранга (0 на максимальном).
func (i TierInfo) Remaining(n int) int {
	if i.Next == nil || n >= i.Next.Threshold {
		return 0
	}
	return i.Next.Threshold - n
}

// Classify определяет ранг для стрика n.
//
// Текущий ранг — последний в таблице с порогом <= n.
// Прогресс = round(100 * (n - текущий порог) / (следующий порог - текущий порог)),
// обрезанный до [0, 100]. На максимальном ранге прогресс всегда 100.
// Отрицательный n не ожидается, он классифицируется как первый ранг.
func Classify(n int) TierInfo {
	idx := tierIndex(n)
	current := Tiers[idx]

	info := TierInfo{
		Current:      current,
		CurrentColor: current.Color,
	}

	if idx == len(Tiers)-1 {
		info.IsMaxTier = true
		info.NextColor = current.Color
		info.Progress = 100
		return info
	}

	next := Tiers[idx+1]
	info.Next = &next
	info.NextColor = next.Color

	span := float64(next.Threshold - current.Threshold)
	progress := math.Round(100 * float64(n-current.Threshold) / span)
	info.Progress = int(math.Max(0, math.Min(100, progress)))
	return info
}
