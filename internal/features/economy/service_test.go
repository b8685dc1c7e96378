package economy

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/features/workouts"
	"serotonyl.ru/gymshots/internal/store"
)

// newTestStore — пользователь "me" со стриком 3 и кошельком {leg: 3}.
func newTestStore() *store.Store {
	return store.New(store.State{
		CurrentUser: store.User{ID: "me"},
		Users: map[string]store.User{
			"me": {ID: "me", Name: "chill2"},
			"u1": {ID: "u1", Name: "ibir"},
		},
		Posts: []store.Post{
			{ID: "p3", UserID: "me", Streak: 3, Tag: workouts.Leg},
			{ID: "p2", UserID: "me", Streak: 2, Tag: workouts.Leg},
			{ID: "p1", UserID: "me", Streak: 1, Tag: workouts.Leg},
		},
	})
}

func TestPurchaseRoundTrip(t *testing.T) {
	st := newTestStore()
	svc := NewService(st)

	o, err := svc.Purchase("me", "novice-sky")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.OK() {
		t.Fatalf("purchase status = %s", o.Status)
	}

	wallet, err := svc.Wallet("me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wallet.Evaluate(BannerByID("novice-sky")).IsOwned {
		t.Fatalf("purchased banner must be owned")
	}
	if wallet.Ledger.Count(workouts.Leg) != 3 {
		t.Fatalf("purchase must not spend posts")
	}

	again, _ := svc.Purchase("me", "novice-sky")
	if again.Status != StatusAlreadyOwned {
		t.Fatalf("second purchase status = %s, want already_owned", again.Status)
	}
}

func TestPurchaseFailuresLeaveStoreUntouched(t *testing.T) {
	cases := []struct {
		banner string
		want   Status
	}{
		{"novice-cloud", StatusInsufficientCurrency},
		{"intermediate-wave", StatusLocked},
		{"default", StatusAlreadyOwned},
		{"no-such-banner", StatusUnknownBanner},
	}
	for _, c := range cases {
		st := newTestStore()
		before := st.CurrentUser().OwnedBanners

		o, err := NewService(st).Purchase("me", c.banner)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.banner, err)
		}
		if o.Status != c.want {
			t.Fatalf("%s: status = %s, want %s", c.banner, o.Status, c.want)
		}
		if got := st.CurrentUser().OwnedBanners; len(got) != len(before) {
			t.Fatalf("%s: owned banners changed to %v", c.banner, got)
		}
	}
}

func TestPurchaseUnknownUser(t *testing.T) {
	_, err := NewService(newTestStore()).Purchase("ghost", "novice-sky")
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPurchaseConcurrentOnlyOnce(t *testing.T) {
	st := newTestStore()
	svc := NewService(st)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Purchase("me", "novice-sky")
		}()
	}
	wg.Wait()

	count := 0
	for _, id := range st.CurrentUser().OwnedBanners {
		if id == "novice-sky" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("banner bought %d times, want 1", count)
	}
}

func TestPurchaseRacingReset(t *testing.T) {
	st := newTestStore()
	svc := NewService(st)
	st.Dispatch(store.RegisterUser{User: store.User{ID: "tg:1", Name: "tg"}})

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			st.Dispatch(store.Reset{})
		}()
		go func() {
			defer wg.Done()
			o, err := svc.Equip("tg:1", "default")
			if err != nil && !errors.Is(err, common.ErrUserNotFound) {
				t.Errorf("unexpected error: %v", err)
			}
			if err == nil && !o.OK() {
				t.Errorf("equip default status = %s", o.Status)
			}
		}()
	}
	wg.Wait()

	if st.HasUser("tg:1") {
		t.Fatalf("reset must remove members outside the seed")
	}
	if _, err := svc.Purchase("tg:1", "novice-sky"); !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("purchase after reset: expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Equip("tg:1", "default"); !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("equip after reset: expected ErrUserNotFound, got %v", err)
	}
}

func TestEquip(t *testing.T) {
	st := newTestStore()
	svc := NewService(st)

	o, _ := svc.Equip("me", "novice-sky")
	if o.Status != StatusNotOwned {
		t.Fatalf("equip before purchase = %s, want not_owned", o.Status)
	}

	if _, err := svc.Purchase("me", "novice-sky"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o, _ = svc.Equip("me", "novice-sky")
	if !o.OK() || st.CurrentUser().EquippedBanner != "novice-sky" {
		t.Fatalf("equip failed: %s, equipped %q", o.Status, st.CurrentUser().EquippedBanner)
	}

	o, _ = svc.Equip("me", "default")
	if !o.OK() || st.CurrentUser().EquippedBanner != "default" {
		t.Fatalf("equip default failed")
	}
}

func TestGallery(t *testing.T) {
	g, err := NewService(newTestStore()).Gallery("me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Wallet.Streak != 3 || g.Equipped.ID != DefaultBannerID {
		t.Fatalf("unexpected gallery header %+v", g.Wallet)
	}
	if len(g.Tiers) != 9 || !g.Tiers[0].Unlocked || g.Tiers[1].Unlocked {
		t.Fatalf("only Novice must be unlocked at streak 3")
	}

	sky := g.Tiers[0].Items[0]
	if sky.Banner.ID != "novice-sky" || !sky.Evaluation.CanAfford {
		t.Fatalf("novice-sky must be affordable: %+v", sky)
	}

	text := FormatGallery(g)
	for _, want := range []string{"Стрик: 3 (Novice)", "✅ Novice", "🔒 Intermediate", "можно купить", "не хватает 🏋️ 3 Push"} {
		if !strings.Contains(text, want) {
			t.Fatalf("gallery text missing %q:\n%s", want, text)
		}
	}
}

func TestCollection(t *testing.T) {
	st := newTestStore()
	svc := NewService(st)
	st.Dispatch(store.PurchaseBanner{UserID: "me", BannerID: "novice-sky"})
	st.Dispatch(store.PurchaseBanner{UserID: "me", BannerID: "novice-sky"})

	banners, err := svc.Collection("me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(banners) != 2 || banners[0].ID != DefaultBannerID || banners[1].ID != "novice-sky" {
		t.Fatalf("collection = %+v", banners)
	}
}

func TestFormatOutcomes(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{FormatPurchase(Outcome{Status: StatusLocked, Banner: BannerByID("master-rose"), Threshold: 50, TierName: "Master"}), "Достигни ранга Master (стрик 50)"},
		{FormatPurchase(Outcome{Status: StatusInsufficientCurrency, Banner: BannerByID("novice-sky"), Shortfall: Cost{workouts.Leg: 1}}), "🦵 ещё 1 Leg"},
		{FormatPurchase(Outcome{Status: StatusUnknownBanner}), "нет в каталоге"},
		{FormatEquip(Outcome{Status: StatusNotOwned, Banner: BannerByID("novice-sky")}), "!купить novice-sky"},
		{FormatEquip(Outcome{Status: StatusOK, Banner: BannerByID("novice-sky")}), "Sky Blue"},
	}
	for _, c := range cases {
		if !strings.Contains(c.text, c.want) {
			t.Fatalf("%q does not contain %q", c.text, c.want)
		}
	}
}
