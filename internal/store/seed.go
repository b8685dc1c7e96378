// Package store — seed.go строит исходное состояние из seed-конфигурации.
// Seed — это демо-данные: пользователи, их коллекции баннеров и серии постов.
// Начальные баннеры задаются конфигурацией явно, случайного выбора нет.
package store

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"serotonyl.ru/gymshots/internal/features/workouts"
)

// SeedConfig — содержимое seed-файла.
type SeedConfig struct {
	CurrentUser string     `yaml:"currentUser"`
	Users       []SeedUser `yaml:"users"`
}

// SeedUser — пользователь и параметры генерации его постов.
type SeedUser struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	Handle         string    `yaml:"handle"`
	Avatar         string    `yaml:"avatar"`
	Bio            string    `yaml:"bio"`
	OwnedBanners   []string  `yaml:"ownedBanners"`
	EquippedBanner string    `yaml:"equippedBanner"`
	Posts          SeedPosts `yaml:"posts"`
}

// SeedPosts — серия постов: по одному раз в два дня, начиная со StartDayOffset дней назад.
// Стрик нумеруется от 1 (самый старый) до Count (самый новый).
type SeedPosts struct {
	Count          int      `yaml:"count"`
	StartDayOffset int      `yaml:"startDayOffset"`
	Photos         []string `yaml:"photos"`
}

var (
	seedCaptions = []string{
		"Leg day grind 💪", "Back pumps! 🔥", "Chest and tris day", "Quick HIIT session",
		"Mobility + core work", "Deadlift PR! 🏋️", "Shoulder day gains", "Cardio and abs",
		"Squat day! 🦵", "Bench press focus", "Pull-up progress", "Rest day mobility",
	}
	seedLocations = []string{
		"Gold Gym, LA", "Anytime Fitness, NY", "Local Garage Gym", "Planet Fitness, TX",
		"Downtown Barbell Club", "Ozdilek Macfit", "Mac Akmerkez",
	}
	seedReactions = []string{"💪", "🔥", "👏", "😤", "🫡", "🤩", "🤯", "🤔"}
	seedComments  = []Comment{
		{UserName: "ibir", Text: "Looking strong! 💪"},
		{UserName: "ozdur", Text: "Great form!"},
		{UserName: "ozdur", Text: "Good job!"},
		{UserName: "ozdur", Text: "Hoollyy"},
		{UserName: "ibir", Text: "Keep it up!"},
		{UserName: "ibir", Text: "Damn!"},
		{UserName: "ozdur", Text: "Solid work!"},
		{UserName: "ozdur", Text: "Nice!"},
		{UserName: "chill2", Text: "Nice gains!"},
		{UserName: "chill2", Text: "Goodness!"},
	}
)

// DefaultSeed возвращает встроенные демо-данные (три пользователя).
func DefaultSeed() SeedConfig {
	return SeedConfig{
		CurrentUser: "me",
		Users: []SeedUser{
			{
				ID: "me", Name: "chill2", Handle: "gymbro.me", Bio: "Chasing PRs.",
				Avatar: "assets/photos/ownprofile/profown-pp.jpg",
				Posts: SeedPosts{Count: 34, StartDayOffset: 0, Photos: []string{
					"assets/photos/ownprofile/profown-1.jpg",
					"assets/photos/ownprofile/profown-2.jpg",
					"assets/photos/ownprofile/profown-3.jpg",
				}},
			},
			{
				ID: "u1", Name: "ibir", Handle: "haribo", Bio: "Gym enthusiast.",
				Avatar: "assets/photos/profile1/prof1-pp.jpg",
				Posts: SeedPosts{Count: 164, StartDayOffset: 1, Photos: []string{
					"assets/photos/profile1/prof1-1.jpg",
					"assets/photos/profile1/prof1-2.jpg",
					"assets/photos/profile1/prof1-3.jpg",
					"assets/photos/profile1/prof1-4.jpg",
					"assets/photos/profile1/prof1-5.jpg",
				}},
			},
			{
				ID: "u2", Name: "ozdur", Handle: "bozduran", Bio: "Fitness lover.",
				Avatar: "assets/photos/profile2/prof2-pp.jpg",
				Posts: SeedPosts{Count: 6, StartDayOffset: 2, Photos: []string{
					"assets/photos/profile2/prof2-1.jpg",
					"assets/photos/profile2/prof2-2.jpg",
					"assets/photos/profile2/prof2-3.jpg",
					"assets/photos/profile2/prof2-4.jpg",
				}},
			},
		},
	}
}

// LoadSeed читает seed-конфигурацию из YAML-файла.
func LoadSeed(path string) (SeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedConfig{}, errors.Wrap(err, "ошибка чтения seed-файла")
	}

	var cfg SeedConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SeedConfig{}, errors.Wrapf(err, "ошибка разбора seed-файла %s", path)
	}
	return cfg, nil
}

// Validate проверяет seed-конфигурацию.
func (c SeedConfig) Validate() error {
	if len(c.Users) == 0 {
		return errors.New("в seed нет пользователей")
	}

	seen := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		if u.ID == "" {
			return errors.New("у пользователя в seed пустой id")
		}
		if seen[u.ID] {
			return fmt.Errorf("пользователь %q указан в seed дважды", u.ID)
		}
		seen[u.ID] = true

		if u.Posts.Count < 0 || u.Posts.StartDayOffset < 0 {
			return fmt.Errorf("у пользователя %q отрицательные параметры постов", u.ID)
		}
		if u.EquippedBanner != "" && u.EquippedBanner != DefaultBannerID && !contains(u.OwnedBanners, u.EquippedBanner) {
			return fmt.Errorf("пользователь %q надел баннер %q, которым не владеет", u.ID, u.EquippedBanner)
		}
	}

	if !seen[c.CurrentUser] {
		return fmt.Errorf("текущий пользователь %q не найден в seed", c.CurrentUser)
	}
	return nil
}

// BuildState генерирует состояние из seed-конфигурации относительно момента now.
func (c SeedConfig) BuildState(now time.Time) (State, error) {
	if err := c.Validate(); err != nil {
		return State{}, err
	}

	state := State{Users: make(map[string]User, len(c.Users))}
	for _, su := range c.Users {
		state.Users[su.ID] = normalizeUser(User{
			ID:             su.ID,
			Name:           su.Name,
			Handle:         su.Handle,
			Avatar:         su.Avatar,
			Bio:            su.Bio,
			EquippedBanner: su.EquippedBanner,
			OwnedBanners:   append([]string(nil), su.OwnedBanners...),
		})
		state.Posts = append(state.Posts, seedPosts(su.ID, su.Posts, now)...)
	}
	state.CurrentUser = state.Users[c.CurrentUser].Clone()

	// Лента хранится от новых к старым, как после серии AddPost
	sort.SliceStable(state.Posts, func(i, j int) bool {
		return state.Posts[i].CreatedAt.After(state.Posts[j].CreatedAt)
	})
	return state, nil
}

// seedPosts генерирует серию постов пользователя. Индекс 0 — самый новый пост.
func seedPosts(userID string, sp SeedPosts, now time.Time) []Post {
	tags := workouts.Keys()
	posts := make([]Post, 0, sp.Count)

	for i := 0; i < sp.Count; i++ {
		daysAgo := sp.StartDayOffset + i*2
		hoursAgo := daysAgo*24 + i*3
		createdAt := now.Add(-time.Duration(hoursAgo) * time.Hour)

		var image string
		if len(sp.Photos) > 0 {
			image = sp.Photos[i%len(sp.Photos)]
		}

		impressions := make([]string, (i*5+3)%9)
		for j := range impressions {
			impressions[j] = seedReactions[(i+j)%len(seedReactions)]
		}

		comments := make([]Comment, i%4)
		for j := range comments {
			c := seedComments[(i*3+j)%len(seedComments)]
			c.CreatedAt = createdAt.Add(time.Duration(j+1) * 15 * time.Minute)
			if c.CreatedAt.After(now) {
				c.CreatedAt = now
			}
			comments[j] = c
		}

		posts = append(posts, Post{
			ID:          fmt.Sprintf("%s-p%d", userID, i+1),
			UserID:      userID,
			ImageURI:    image,
			Caption:     seedCaptions[i%len(seedCaptions)],
			CreatedAt:   createdAt,
			Tag:         tags[i%len(tags)],
			Label:       Labels[(i*4)%len(Labels)],
			Location:    seedLocations[i%len(seedLocations)],
			Streak:      sp.Count - i,
			Impressions: impressions,
			Comments:    comments,
		})
	}
	return posts
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
