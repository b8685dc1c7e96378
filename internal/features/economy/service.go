// Package economy — service.go покупает и надевает баннеры.
// Проверка условий и изменение хранилища выполняются под одной блокировкой
// хранилища (Store.DispatchFunc), поэтому два параллельных запроса не купят
// баннер дважды, а !сброс не вклинится между проверкой и покупкой.
package economy

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/features/ledger"
	"serotonyl.ru/gymshots/internal/features/streak"
	"serotonyl.ru/gymshots/internal/store"
)

// Wallet — всё, что нужно для оценки баннеров одного пользователя.
type Wallet struct {
	User   store.User
	Streak int
	Ledger ledger.Ledger
}

// Evaluate оценивает баннер для владельца кошелька.
func (w Wallet) Evaluate(b Banner) Evaluation {
	return Evaluate(b, w.Streak, w.Ledger, w.User.OwnedBanners, w.User.EquippedBanner)
}

// GalleryItem — баннер и его состояние для пользователя.
type GalleryItem struct {
	Banner     Banner
	Evaluation Evaluation
}

// GalleryTier — ранг в галерее.
type GalleryTier struct {
	Tier     streak.Tier
	Unlocked bool // Хотя бы один баннер ранга открыт
	Items    []GalleryItem
}

// Gallery — каталог баннеров глазами пользователя.
type Gallery struct {
	Wallet   Wallet
	Equipped Banner
	Tiers    []GalleryTier
}

// Service управляет покупкой и экипировкой баннеров.
type Service struct {
	store *store.Store
}

// NewService создаёт сервис экономики баннеров.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Wallet возвращает кошелёк пользователя по текущему состоянию хранилища.
func (s *Service) Wallet(userID string) (Wallet, error) {
	return walletFrom(s.store.Snapshot(), userID)
}

func walletFrom(state store.State, userID string) (Wallet, error) {
	user, ok := state.Users[userID]
	if !ok {
		return Wallet{}, fmt.Errorf("ошибка получения кошелька: %w (id=%s)", common.ErrUserNotFound, userID)
	}
	posts := store.PostsByUser(state.Posts, userID)
	return Wallet{
		User:   user,
		Streak: ledger.CurrentStreak(posts),
		Ledger: ledger.Build(posts),
	}, nil
}

// Purchase покупает баннер. Хранилище меняется только при Outcome.OK().
// Ошибка возвращается лишь для неизвестного пользователя.
func (s *Service) Purchase(userID, bannerID string) (Outcome, error) {
	banner, ok := Lookup(bannerID)
	if !ok {
		return Outcome{Status: StatusUnknownBanner}, nil
	}

	var outcome Outcome
	_, err := s.store.DispatchFunc(func(state store.State) (store.Action, error) {
		wallet, err := walletFrom(state, userID)
		if err != nil {
			return nil, err
		}
		outcome = CheckPurchase(banner, wallet.Evaluate(banner))
		if !outcome.OK() {
			return nil, nil
		}
		return store.PurchaseBanner{UserID: userID, BannerID: banner.ID}, nil
	})
	if err != nil {
		return Outcome{}, err
	}

	log.WithFields(log.Fields{
		"user_id":   userID,
		"banner_id": banner.ID,
		"status":    outcome.Status.String(),
	}).Info("Покупка баннера")

	return outcome, nil
}

// Equip надевает баннер из коллекции пользователя.
func (s *Service) Equip(userID, bannerID string) (Outcome, error) {
	banner, ok := Lookup(bannerID)
	if !ok {
		return Outcome{Status: StatusUnknownBanner}, nil
	}

	var outcome Outcome
	_, err := s.store.DispatchFunc(func(state store.State) (store.Action, error) {
		wallet, err := walletFrom(state, userID)
		if err != nil {
			return nil, err
		}
		outcome = CheckEquip(banner, wallet.Evaluate(banner))
		if !outcome.OK() {
			return nil, nil
		}
		return store.EquipBanner{UserID: userID, BannerID: banner.ID}, nil
	})
	if err != nil {
		return Outcome{}, err
	}

	log.WithFields(log.Fields{
		"user_id":   userID,
		"banner_id": banner.ID,
		"status":    outcome.Status.String(),
	}).Debug("Экипировка баннера")

	return outcome, nil
}

// Gallery возвращает каталог, сгруппированный по рангам, с оценкой каждого баннера.
func (s *Service) Gallery(userID string) (*Gallery, error) {
	wallet, err := s.Wallet(userID)
	if err != nil {
		return nil, err
	}

	g := &Gallery{
		Wallet:   wallet,
		Equipped: BannerByID(wallet.User.EquippedBanner),
	}
	for _, group := range GroupByTier() {
		gt := GalleryTier{
			Tier:     group.Tier,
			Unlocked: TierUnlocked(group.Tier.Name, wallet.Streak),
		}
		for _, b := range group.Banners {
			gt.Items = append(gt.Items, GalleryItem{Banner: b, Evaluation: wallet.Evaluate(b)})
		}
		g.Tiers = append(g.Tiers, gt)
	}
	return g, nil
}

// Collection возвращает баннеры пользователя без повторов: сначала стартовый,
// затем купленные в порядке покупки.
func (s *Service) Collection(userID string) ([]Banner, error) {
	user, err := s.store.User(userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения коллекции: %w", err)
	}

	seen := map[string]bool{DefaultBannerID: true}
	banners := []Banner{DefaultBanner}
	for _, id := range user.OwnedBanners {
		if seen[id] {
			continue
		}
		seen[id] = true
		if b, ok := Lookup(id); ok {
			banners = append(banners, b)
		}
	}
	return banners, nil
}
