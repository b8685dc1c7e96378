package members

import (
	"errors"
	"strings"
	"testing"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/features/workouts"
	"serotonyl.ru/gymshots/internal/store"
)

func newTestService() (*Service, *store.Store) {
	st := store.New(store.State{
		CurrentUser: store.User{ID: "me"},
		Users: map[string]store.User{
			"me": {ID: "me", Name: "chill2", Handle: "gymbro.me", Bio: "Chasing PRs."},
		},
		Posts: []store.Post{
			{ID: "p2", UserID: "me", Streak: 2, Tag: workouts.Leg, Comments: []store.Comment{{UserName: "ibir", Text: "Nice!"}}},
			{ID: "p1", UserID: "me", Streak: 1, Tag: workouts.Pull},
		},
	})
	return NewService(st), st
}

func TestTelegramIDRoundTrip(t *testing.T) {
	id := UserID(42)
	if id != "tg:42" {
		t.Fatalf("UserID(42) = %q", id)
	}
	if got, ok := TelegramID(id); !ok || got != 42 {
		t.Fatalf("TelegramID(%q) = %d, %v", id, got, ok)
	}
	for _, bad := range []string{"me", "tg:", "tg:abc"} {
		if _, ok := TelegramID(bad); ok {
			t.Fatalf("TelegramID(%q) must fail", bad)
		}
	}
}

func TestEnsureMember(t *testing.T) {
	svc, st := newTestService()

	if svc.IsMember(42) {
		t.Fatalf("unknown telegram user reported as member")
	}
	id, err := svc.EnsureMember(42, "vasya", "Vasya", "Pupkin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, err := st.User(id)
	if err != nil || !svc.IsMember(42) {
		t.Fatalf("member not registered: %v", err)
	}
	if u.Name != "Vasya Pupkin" || u.Handle != "vasya" || u.EquippedBanner != "default" {
		t.Fatalf("unexpected member %+v", u)
	}

	// Повторная регистрация не перезаписывает имя
	if _, err := svc.UpdateProfile(id, ProfileForm{Name: "Vasiliy", HasName: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.EnsureMember(42, "vasya", "Vasya", "Pupkin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u, _ := st.User(id); u.Name != "Vasiliy" {
		t.Fatalf("EnsureMember overwrote name: %q", u.Name)
	}

	id2, _ := svc.EnsureMember(7, "", "", "")
	if u, _ := st.User(id2); u.Handle != "id7" || u.Name != "tg:7" {
		t.Fatalf("fallback name/handle = %+v", u)
	}

	if _, err := svc.EnsureMember(0, "x", "x", ""); err == nil {
		t.Fatalf("zero telegram id must be rejected")
	}
}

func TestResolve(t *testing.T) {
	svc, _ := newTestService()

	for _, ref := range []string{"@gymbro.me", "GYMBRO.ME", "me"} {
		u, err := svc.Resolve(ref)
		if err != nil || u.ID != "me" {
			t.Fatalf("Resolve(%q) = %+v, %v", ref, u, err)
		}
	}
	if _, err := svc.Resolve("@nobody"); !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.GetProfile("me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Streak != 2 || p.Tier.Current.Name != "Novice" || p.Posts != 2 || p.Comments != 1 {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.Ledger.Count(workouts.Leg) != 1 || p.Banner.ID != "default" {
		t.Fatalf("unexpected ledger/banner %v %s", p.Ledger, p.Banner.ID)
	}
	if p.DisplayName() != "@gymbro.me" {
		t.Fatalf("DisplayName = %q", p.DisplayName())
	}

	text := FormatProfile(p)
	for _, want := range []string{"chill2 (@gymbro.me)", "Chasing PRs.", "Стрик: 2 (Novice)", "1 комментарий", "Starter"} {
		if !strings.Contains(text, want) {
			t.Fatalf("profile text missing %q:\n%s", want, text)
		}
	}

	if _, err := svc.GetProfile("ghost"); !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	cases := []struct {
		name    string
		form    ProfileForm
		wantErr error
		check   func(store.User) bool
	}{
		{
			name:  "trimmed name",
			form:  ProfileForm{Name: "  Iron Mike  ", HasName: true},
			check: func(u store.User) bool { return u.Name == "Iron Mike" && u.Bio == "Chasing PRs." },
		},
		{
			name:    "empty name",
			form:    ProfileForm{Name: "   ", HasName: true},
			wantErr: common.ErrEmptyName,
		},
		{
			name:    "long name",
			form:    ProfileForm{Name: strings.Repeat("я", MaxNameLength+1), HasName: true},
			wantErr: common.ErrInvalidProfile,
		},
		{
			name:  "cyrillic name at limit",
			form:  ProfileForm{Name: strings.Repeat("я", MaxNameLength), HasName: true},
			check: func(u store.User) bool { return len([]rune(u.Name)) == MaxNameLength },
		},
		{
			name:    "long bio",
			form:    ProfileForm{Bio: strings.Repeat("a", MaxBioLength+1), HasBio: true},
			wantErr: common.ErrInvalidProfile,
		},
		{
			name:  "clear bio",
			form:  ProfileForm{Bio: "", HasBio: true},
			check: func(u store.User) bool { return u.Bio == "" && u.Name == "chill2" },
		},
		{
			name:  "empty form",
			form:  ProfileForm{},
			check: func(u store.User) bool { return u.Name == "chill2" && u.Bio == "Chasing PRs." },
		},
	}

	for _, c := range cases {
		svc, st := newTestService()
		u, err := svc.UpdateProfile("me", c.form)
		if c.wantErr != nil {
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("case %s: expected %v, got %v", c.name, c.wantErr, err)
			}
			if cur := st.CurrentUser(); cur.Name != "chill2" || cur.Bio != "Chasing PRs." {
				t.Fatalf("case %s: rejected form changed the profile", c.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %s: unexpected error: %v", c.name, err)
		}
		if !c.check(u) {
			t.Fatalf("case %s: unexpected user %+v", c.name, u)
		}
		if cur := st.CurrentUser(); cur.Name != u.Name || cur.Bio != u.Bio {
			t.Fatalf("case %s: current user slot not synced", c.name)
		}
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdateProfile("ghost", ProfileForm{Name: "x", HasName: true})
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
