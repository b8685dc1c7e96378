package store

import (
	"fmt"
	"testing"
	"time"

	"serotonyl.ru/gymshots/internal/features/workouts"
)

var testNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func testReducer(seed State) *Reducer {
	n := 0
	return NewReducer(seed,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("post-%d", n)
		}),
	)
}

func testSeed() State {
	return State{
		CurrentUser: User{ID: "me"},
		Users: map[string]User{
			"me":  {ID: "me", Name: "chill2", Handle: "gymbro.me", Bio: "Chasing PRs."},
			"u1":  {ID: "u1", Name: "ibir", Handle: "haribo"},
			"new": {ID: "new", Name: "fresh"},
		},
		Posts: []Post{
			{ID: "me-p2", UserID: "me", Streak: 2, Tag: workouts.Push, CreatedAt: testNow.Add(-24 * time.Hour)},
			{ID: "u1-p1", UserID: "u1", Streak: 7, Tag: workouts.Leg, CreatedAt: testNow.Add(-30 * time.Hour)},
			{ID: "me-p1", UserID: "me", Streak: 1, Tag: workouts.Pull, CreatedAt: testNow.Add(-72 * time.Hour)},
		},
	}
}

func TestInitialStateNormalized(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Initial()

	for id, u := range s.Users {
		if !u.Owns(DefaultBannerID) {
			t.Fatalf("user %s does not own the default banner", id)
		}
		if u.EquippedBanner != DefaultBannerID {
			t.Fatalf("user %s equipped %q, want default", id, u.EquippedBanner)
		}
	}
	if s.CurrentUser.Name != "chill2" {
		t.Fatalf("current user slot not filled from users: %+v", s.CurrentUser)
	}
}

func TestAddPostStreakIsMaxPlusOne(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Reduce(r.Initial(), AddPost{UserID: "me", ImageURI: "img.jpg", Caption: "squats", Tag: "leg"})

	if len(s.Posts) != 4 {
		t.Fatalf("got %d posts, want 4", len(s.Posts))
	}
	p := s.Posts[0]
	if p.ID != "post-1" || p.UserID != "me" {
		t.Fatalf("new post not prepended: %+v", p)
	}
	if p.Streak != 3 {
		t.Fatalf("streak = %d, want 3", p.Streak)
	}
	if !p.CreatedAt.Equal(testNow) {
		t.Fatalf("createdAt = %v, want %v", p.CreatedAt, testNow)
	}
	if p.Tag != workouts.Leg || p.Label != DefaultLabel {
		t.Fatalf("unexpected tag/label %q/%q", p.Tag, p.Label)
	}
	if p.Impressions == nil || p.Comments == nil {
		t.Fatalf("impressions and comments must be empty, not nil")
	}
}

func TestAddPostFirstEverPostStartsAtOne(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Reduce(r.Initial(), AddPost{UserID: "new", Tag: "cardio"})
	if s.Posts[0].Streak != 1 {
		t.Fatalf("first post streak = %d, want 1", s.Posts[0].Streak)
	}
}

func TestAddPostDefaultsToCurrentUserAndNormalizesTag(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Reduce(r.Initial(), AddPost{Tag: "yoga", Label: "bombastic"})

	p := s.Posts[0]
	if p.UserID != "me" {
		t.Fatalf("post user = %q, want current user", p.UserID)
	}
	if p.Tag != workouts.Fallback {
		t.Fatalf("tag = %q, want fallback %q", p.Tag, workouts.Fallback)
	}
	if p.Label != "bombastic" {
		t.Fatalf("label = %q", p.Label)
	}
}

func TestAddPostSequenceIsMonotonic(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Initial()
	for i := 0; i < 5; i++ {
		s = r.Reduce(s, AddPost{UserID: "u1", Tag: "pull"})
		if got := MaxStreak(PostsByUser(s.Posts, "u1")); got != 8+i {
			t.Fatalf("after %d posts max streak = %d, want %d", i+1, got, 8+i)
		}
	}
}

func TestAddPostUnknownUserIsNoop(t *testing.T) {
	r := testReducer(testSeed())
	before := r.Initial()
	after := r.Reduce(before, AddPost{UserID: "ghost"})
	if len(after.Posts) != len(before.Posts) {
		t.Fatalf("post for unknown user must not be created")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	r := testReducer(testSeed())
	before := r.Initial()
	_ = r.Reduce(before, AddPost{UserID: "me"})
	_ = r.Reduce(before, AddComment{PostID: "me-p1", Text: "hi"})
	_ = r.Reduce(before, PurchaseBanner{BannerID: "novice-sky"})

	if len(before.Posts) != 3 {
		t.Fatalf("input posts mutated")
	}
	if len(before.Posts[2].Comments) != 0 {
		t.Fatalf("input comments mutated")
	}
	if before.Users["me"].Owns("novice-sky") {
		t.Fatalf("input users mutated")
	}
}

func TestAddComment(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Reduce(r.Initial(), AddComment{PostID: "u1-p1", Text: "Great form!"})

	var post Post
	for _, p := range s.Posts {
		if p.ID == "u1-p1" {
			post = p
		}
	}
	if len(post.Comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(post.Comments))
	}
	c := post.Comments[0]
	if c.UserName != "chill2" || c.Text != "Great form!" || !c.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected comment %+v", c)
	}

	s = r.Reduce(s, AddComment{PostID: "u1-p1", Text: "second", UserID: "u1"})
	for _, p := range s.Posts {
		if p.ID == "u1-p1" {
			if len(p.Comments) != 2 || p.Comments[1].UserName != "ibir" {
				t.Fatalf("comments not appended in order: %+v", p.Comments)
			}
		}
	}
}

func TestAddCommentUnknownPostLeavesPostsUnchanged(t *testing.T) {
	r := testReducer(testSeed())
	before := r.Initial()
	after := r.Reduce(before, AddComment{PostID: "missing", Text: "hello"})

	if len(after.Posts) != len(before.Posts) {
		t.Fatalf("posts count changed")
	}
	for i := range after.Posts {
		if len(after.Posts[i].Comments) != len(before.Posts[i].Comments) {
			t.Fatalf("post %s comments changed", after.Posts[i].ID)
		}
	}
}

func TestPurchaseBannerAppendsUnconditionally(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Reduce(r.Initial(), PurchaseBanner{BannerID: "novice-sky"})
	if !s.Users["me"].Owns("novice-sky") || !s.CurrentUser.Owns("novice-sky") {
		t.Fatalf("purchase not applied to both slots")
	}

	s = r.Reduce(s, PurchaseBanner{BannerID: "novice-sky"})
	count := 0
	for _, id := range s.Users["me"].OwnedBanners {
		if id == "novice-sky" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("reducer purchase is not idempotent, want 2 entries, got %d", count)
	}

	s = r.Reduce(s, PurchaseBanner{UserID: "u1", BannerID: "novice-cloud"})
	if !s.Users["u1"].Owns("novice-cloud") {
		t.Fatalf("purchase for explicit user not applied")
	}
	if s.CurrentUser.Owns("novice-cloud") {
		t.Fatalf("purchase for other user leaked into current user")
	}
}

func TestEquipBannerOverwrites(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Reduce(r.Initial(), EquipBanner{BannerID: "novice-sky"})
	s = r.Reduce(s, EquipBanner{BannerID: "novice-cloud"})

	if s.CurrentUser.EquippedBanner != "novice-cloud" || s.Users["me"].EquippedBanner != "novice-cloud" {
		t.Fatalf("equip not applied: %+v", s.CurrentUser)
	}
}

func TestUpdateProfilePatchPrecedence(t *testing.T) {
	r := testReducer(testSeed())
	name := "chill3"
	s := r.Reduce(r.Initial(), UpdateProfile{Patch: ProfilePatch{Name: &name}})

	for _, u := range []User{s.CurrentUser, s.Users["me"]} {
		if u.Name != "chill3" {
			t.Fatalf("name = %q, want chill3", u.Name)
		}
		if u.Bio != "Chasing PRs." {
			t.Fatalf("absent bio must be retained, got %q", u.Bio)
		}
	}

	empty := ""
	s = r.Reduce(s, UpdateProfile{Patch: ProfilePatch{Bio: &empty}})
	if s.CurrentUser.Bio != "" || s.CurrentUser.Name != "chill3" {
		t.Fatalf("present empty bio must overwrite: %+v", s.CurrentUser)
	}
}

func TestResetReturnsSeed(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Reduce(r.Initial(), AddPost{})
	s = r.Reduce(s, PurchaseBanner{BannerID: "novice-sky"})
	s = r.Reduce(s, Reset{})

	if len(s.Posts) != 3 {
		t.Fatalf("reset left %d posts, want 3", len(s.Posts))
	}
	if s.CurrentUser.Owns("novice-sky") {
		t.Fatalf("reset kept purchased banner")
	}
}

func TestRegisterAndSwitchUser(t *testing.T) {
	r := testReducer(testSeed())
	s := r.Reduce(r.Initial(), RegisterUser{User: User{ID: "tg:42", Name: "Vasya"}})

	u, ok := s.Users["tg:42"]
	if !ok {
		t.Fatalf("user not registered")
	}
	if !u.Owns(DefaultBannerID) || u.EquippedBanner != DefaultBannerID {
		t.Fatalf("registered user not normalized: %+v", u)
	}

	s = r.Reduce(s, RegisterUser{User: User{ID: "tg:42", Name: "Other"}})
	if s.Users["tg:42"].Name != "Vasya" {
		t.Fatalf("register must not overwrite existing user")
	}

	s = r.Reduce(s, SwitchUser{UserID: "tg:42"})
	if s.CurrentUser.ID != "tg:42" {
		t.Fatalf("switch user failed")
	}
	s = r.Reduce(s, SwitchUser{UserID: "ghost"})
	if s.CurrentUser.ID != "tg:42" {
		t.Fatalf("switch to unknown user must be a no-op")
	}
}

func TestProfilePatchIsEmpty(t *testing.T) {
	if !(ProfilePatch{}).IsEmpty() {
		t.Fatalf("zero patch must be empty")
	}
	bio := "x"
	if (ProfilePatch{Bio: &bio}).IsEmpty() {
		t.Fatalf("patch with bio must not be empty")
	}
}

func TestUpdateProfileForOtherUser(t *testing.T) {
	r := testReducer(testSeed())
	bio := "Leg day every day"
	s := r.Reduce(r.Initial(), UpdateProfile{UserID: "u1", Patch: ProfilePatch{Bio: &bio}})

	if s.Users["u1"].Bio != bio {
		t.Fatalf("u1 bio = %q", s.Users["u1"].Bio)
	}
	if s.CurrentUser.Bio != "Chasing PRs." || s.Users["me"].Bio != "Chasing PRs." {
		t.Fatalf("patch for u1 leaked into current user")
	}

	s = r.Reduce(s, UpdateProfile{UserID: "ghost", Patch: ProfilePatch{Bio: &bio}})
	if _, ok := s.Users["ghost"]; ok {
		t.Fatalf("patch for unknown user must not create it")
	}
}

func TestAddImpression(t *testing.T) {
	r := testReducer(testSeed())
	before := r.Initial()
	s := r.Reduce(before, AddImpression{PostID: "u1-p1", Emoji: "🔥"})
	s = r.Reduce(s, AddImpression{PostID: "u1-p1", Emoji: "💪"})

	for _, p := range s.Posts {
		if p.ID == "u1-p1" && (len(p.Impressions) != 2 || p.Impressions[1] != "💪") {
			t.Fatalf("impressions = %v", p.Impressions)
		}
	}
	if len(before.Posts[1].Impressions) != 0 {
		t.Fatalf("input impressions mutated")
	}

	after := r.Reduce(s, AddImpression{PostID: "missing", Emoji: "🔥"})
	if len(after.Posts) != len(s.Posts) {
		t.Fatalf("unknown post changed posts")
	}
}
