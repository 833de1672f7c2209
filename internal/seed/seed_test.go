package seed

import (
	"strings"
	"testing"
	"time"

	"uniconnect/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSeed_PopulatesTables(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models.AllRecords()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := Seed(db, Options{NumUsers: 5, NumPosts: 4, CommentsPerPost: 2, SkipBcrypt: true}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var users, posts, comments int64
	db.Model(&models.UserRecord{}).Count(&users)
	db.Model(&models.PostRecord{}).Count(&posts)
	db.Model(&models.CommentRecord{}).Count(&comments)

	if users != 5 {
		t.Fatalf("expected 5 users, got %d", users)
	}
	if posts != 4 {
		t.Fatalf("expected 4 posts, got %d", posts)
	}
	if comments != 8 {
		t.Fatalf("expected 8 comments, got %d", comments)
	}

	var john models.UserRecord
	if err := db.Where("email = ?", "john@example.com").First(&john).Error; err != nil {
		t.Fatalf("demo student missing: %v", err)
	}
	if john.UserType != string(models.RoleStudent) {
		t.Fatalf("expected demo student role, got %q", john.UserType)
	}
}

func TestBuildPost_HashtagsMatchContent(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, MaxDays: 7})
	author := &models.UserRecord{ID: 1}

	p := f.BuildPost(author)
	if p.UserID != 1 {
		t.Fatalf("expected author id 1, got %d", p.UserID)
	}
	for _, tag := range strings.Split(p.Hashtag, ",") {
		if !strings.Contains(p.Content, tag) {
			t.Fatalf("content %q does not mention %s", p.Content, tag)
		}
	}
	if time.Since(p.CreatedAt) > 8*24*time.Hour {
		t.Fatalf("created_at too old: %v", p.CreatedAt)
	}
}

func TestCreateUser_DryRun(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, SkipBcrypt: true})
	u, err := f.CreateUser(func(u *models.UserRecord) { u.UserType = "investor" })
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 || u.UserType != "investor" || u.Password != DemoPassword {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestFixtures(t *testing.T) {
	posts := DemoPosts(time.Now())
	if len(posts) != 3 {
		t.Fatalf("expected 3 demo posts, got %d", len(posts))
	}
	if posts[0].Comments[1].ID != "1-c1" {
		t.Fatalf("unexpected comment id %q", posts[0].Comments[1].ID)
	}

	d := Dashboard()
	if len(d.Analytics) != 6 || len(d.Courses) != 3 || len(d.Notifications) != 3 {
		t.Fatalf("unexpected dashboard fixture sizes")
	}

	for _, u := range DemoUsers() {
		if !u.Type.Valid() {
			t.Fatalf("demo user %s has invalid role", u.ID)
		}
	}
}
