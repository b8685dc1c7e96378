package admin

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"serotonyl.ru/gymshots/internal/common"
	"serotonyl.ru/gymshots/internal/store"
)

const (
	adminID    int64 = 100
	strangerID int64 = 200
	password         = "s3cret pass"
)

var (
	hashOnce   sync.Once
	cachedHash string
)

// testHash считает хеш один раз: Argon2id с боевыми параметрами небыстрый.
func testHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		cachedHash = h
	})
	return cachedHash
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time           { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*Service, *store.Store, *fakeClock) {
	t.Helper()
	st := store.New(store.State{
		CurrentUser: store.User{ID: "me"},
		Users:       map[string]store.User{"me": {ID: "me", Name: "chill2"}},
		Posts: []store.Post{
			{ID: "p1", UserID: "me", Streak: 1, Comments: []store.Comment{{UserName: "chill2", Text: "hi"}}},
		},
	})
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	return NewService(st, []int64{adminID}, testHash(t), WithClock(clock.Now)), st, clock
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash := testHash(t)
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	cases := []struct {
		name     string
		password string
		hash     string
		ok       bool
	}{
		{"correct", password, hash, true},
		{"wrong", "nope", hash, false},
		{"empty", "", hash, false},
		{"garbage hash", password, "not-a-hash", false},
		{"wrong algorithm", password, strings.Replace(hash, "argon2id", "argon2i", 1), false},
		{"bad salt", password, "$argon2id$v=19$m=65536,t=3,p=2$!!!$AAAA", false},
	}
	for _, c := range cases {
		if got := VerifyPassword(c.password, c.hash); got != c.ok {
			t.Fatalf("case %s: VerifyPassword = %v, want %v", c.name, got, c.ok)
		}
	}
}

func TestLoginOpensSession(t *testing.T) {
	svc, _, clock := newTestService(t)

	if svc.HasActiveSession(adminID) {
		t.Fatalf("session must not exist before login")
	}
	if err := svc.Login(adminID, password); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !svc.HasActiveSession(adminID) {
		t.Fatalf("session not opened")
	}

	clock.Advance(SessionTTL - time.Minute)
	if !svc.HasActiveSession(adminID) {
		t.Fatalf("session expired too early")
	}
	clock.Advance(time.Minute)
	if svc.HasActiveSession(adminID) {
		t.Fatalf("session must expire after 24h")
	}
}

func TestLoginRejectsStrangers(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.Login(strangerID, password); !errors.Is(err, common.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}

func TestLoginLockout(t *testing.T) {
	svc, _, clock := newTestService(t)

	for i := 0; i < MaxAttempts; i++ {
		if err := svc.Login(adminID, "wrong"); !errors.Is(err, common.ErrWrongPassword) {
			t.Fatalf("attempt %d: expected ErrWrongPassword, got %v", i+1, err)
		}
		clock.Advance(time.Minute)
	}

	if err := svc.Login(adminID, password); !errors.Is(err, common.ErrTooManyAttempts) {
		t.Fatalf("expected lockout, got %v", err)
	}

	// Первая неудачная попытка выпадает из окна через час
	clock.Advance(AttemptWindow - 2*time.Minute)
	if err := svc.Login(adminID, password); err != nil {
		t.Fatalf("login after window: %v", err)
	}
}

func TestSuccessfulLoginClearsFailures(t *testing.T) {
	svc, _, _ := newTestService(t)

	for i := 0; i < MaxAttempts-1; i++ {
		_ = svc.Login(adminID, "wrong")
	}
	if err := svc.Login(adminID, password); err != nil {
		t.Fatalf("Login: %v", err)
	}
	for i := 0; i < MaxAttempts-1; i++ {
		_ = svc.Login(adminID, "wrong")
	}
	if err := svc.Login(adminID, password); err != nil {
		t.Fatalf("failures were not cleared by successful login: %v", err)
	}
}

func TestResetRequiresSession(t *testing.T) {
	svc, st, _ := newTestService(t)
	st.Dispatch(store.AddPost{UserID: "me"})

	if err := svc.Reset(strangerID); !errors.Is(err, common.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if err := svc.Reset(adminID); !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if len(st.Posts()) != 2 {
		t.Fatalf("reset without session must not touch the store")
	}

	if err := svc.Login(adminID, password); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Reset(adminID); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(st.Posts()) != 1 {
		t.Fatalf("reset did not restore seed, got %d posts", len(st.Posts()))
	}
}

func TestResetRunsHooks(t *testing.T) {
	st := store.New(store.State{
		CurrentUser: store.User{ID: "me"},
		Users:       map[string]store.User{"me": {ID: "me", Name: "chill2"}},
	})
	calls := 0
	svc := NewService(st, []int64{adminID}, testHash(t), WithResetHook(func() { calls++ }))

	if err := svc.Reset(adminID); err == nil {
		t.Fatalf("reset without session must fail")
	}
	if calls != 0 {
		t.Fatalf("hook ran for a rejected reset")
	}

	if err := svc.Login(adminID, password); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Reset(adminID); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if calls != 1 {
		t.Fatalf("hook calls = %d, want 1", calls)
	}
}

func TestLogout(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.Login(adminID, password); err != nil {
		t.Fatalf("Login: %v", err)
	}
	svc.Logout(adminID)
	if svc.HasActiveSession(adminID) {
		t.Fatalf("session survived logout")
	}
}

func TestStats(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Stats(adminID); !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if err := svc.Login(adminID, password); err != nil {
		t.Fatalf("Login: %v", err)
	}

	stats, err := svc.Stats(adminID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{Users: 1, Posts: 1, Comments: 1, Sessions: 1}
	if stats != want {
		t.Fatalf("Stats = %+v, want %+v", stats, want)
	}
	if out := FormatStats(stats); !strings.Contains(out, "Постов: 1") {
		t.Fatalf("unexpected stats text %q", out)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"test password", password, true},
		{"too short", "abc", false},
		{"min length", strings.Repeat("a", MinPasswordLength), true},
		{"too long", strings.Repeat("a", MaxPasswordLength+1), false},
	}
	for _, c := range cases {
		err := ValidatePassword(c.password)
		if c.ok && err != nil {
			t.Fatalf("case %s expected ok, got err: %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("case %s expected error, got nil", c.name)
		}
	}
}
