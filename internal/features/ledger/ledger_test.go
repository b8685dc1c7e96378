package ledger

import (
	"testing"

	"serotonyl.ru/gymshots/internal/features/workouts"
	"serotonyl.ru/gymshots/internal/store"
)

func TestBuild(t *testing.T) {
	posts := []store.Post{
		{Tag: workouts.Pull},
		{Tag: workouts.Pull},
		{Tag: workouts.Push},
	}
	l := Build(posts)

	if l.Count(workouts.Pull) != 2 || l.Count(workouts.Push) != 1 {
		t.Fatalf("unexpected ledger %v", l)
	}
	if l.Count(workouts.Leg) != 0 {
		t.Fatalf("absent category must count as 0")
	}
	if len(l) != 2 {
		t.Fatalf("ledger has %d keys, want 2", len(l))
	}
	if l.Total() != len(posts) {
		t.Fatalf("total = %d, want %d", l.Total(), len(posts))
	}
}

func TestBuildUnknownTagGoesToFallback(t *testing.T) {
	l := Build([]store.Post{{Tag: "yoga"}, {Tag: ""}})
	if l.Count(workouts.Fallback) != 2 {
		t.Fatalf("fallback count = %d, want 2", l.Count(workouts.Fallback))
	}
}

func TestBuildEmpty(t *testing.T) {
	if l := Build(nil); len(l) != 0 || l.Total() != 0 {
		t.Fatalf("empty posts must give empty ledger, got %v", l)
	}
}

func TestForUser(t *testing.T) {
	posts := []store.Post{
		{UserID: "me", Tag: workouts.Leg},
		{UserID: "u1", Tag: workouts.Leg},
		{UserID: "me", Tag: workouts.Cardio},
	}
	l := ForUser(posts, "me")
	if l.Count(workouts.Leg) != 1 || l.Count(workouts.Cardio) != 1 || l.Total() != 2 {
		t.Fatalf("unexpected ledger %v", l)
	}
}

func TestCurrentStreak(t *testing.T) {
	cases := []struct {
		name  string
		posts []store.Post
		want  int
	}{
		{"empty", nil, 0},
		{"single", []store.Post{{Streak: 1}}, 1},
		{"unordered", []store.Post{{Streak: 3}, {Streak: 7}, {Streak: 5}}, 7},
	}
	for _, c := range cases {
		if got := CurrentStreak(c.posts); got != c.want {
			t.Fatalf("case %s: CurrentStreak = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestString(t *testing.T) {
	l := Ledger{workouts.Leg: 3, workouts.Pull: 1}
	if got, want := l.String(), "💪 Pull: 1, 🦵 Leg: 3"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got := (Ledger{}).String(); got != "пусто" {
		t.Fatalf("empty String() = %q", got)
	}
}
