// Package seed provides helpers to create demo data for the development
// backend and the in-process feed. These helpers are intended for
// development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"uniconnect/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "campus2024"

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	MaxDays         int
	SkipBcrypt      bool
	DryRun          bool
}

var hashtagPool = []string{
	"#student", "#library", "#research", "#ai", "#edtech", "#startup",
	"#investor", "#greenenergy", "#professor", "#quantumcomputing", "#hackathon",
}

// Factory builds backend records and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

func (f *Factory) assignID() uint {
	f.nextID++
	return f.nextID
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.UserRecord)) (*models.UserRecord, error) {
	user := &models.UserRecord{
		Username:       gofakeit.FirstName() + " " + gofakeit.LastName(),
		Email:          fmt.Sprintf("%s%d@%s", strings.ToLower(gofakeit.Username()), gofakeit.Number(100, 999), "example.edu"),
		UserType:       string(models.Roles[f.rnd.Intn(len(models.Roles))]),
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = DemoPassword
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		user.ID = f.assignID()
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post by author without persisting it.
func (f *Factory) BuildPost(author *models.UserRecord) *models.PostRecord {
	tags := make([]string, 0, 3)
	for i := 0; i < 1+f.rnd.Intn(3); i++ {
		tags = append(tags, hashtagPool[f.rnd.Intn(len(hashtagPool))])
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	created := time.Now().Add(-time.Duration(f.rnd.Intn(maxDays*24)) * time.Hour)

	post := &models.PostRecord{
		Content:   gofakeit.Paragraph(1, 2, 12, " ") + " " + strings.Join(tags, " "),
		Hashtag:   strings.Join(tags, ","),
		UserID:    author.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if f.rnd.Intn(4) == 0 {
		post.Media = []models.MediaRecord{{
			FileURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
			FileType: "image/jpeg",
			Name:     gofakeit.Word() + ".jpg",
		}}
	}
	return post
}

// CreateComment persists a comment on post by author.
func (f *Factory) CreateComment(post *models.PostRecord, author *models.UserRecord) (*models.CommentRecord, error) {
	comment := &models.CommentRecord{
		PostID:  post.ID,
		UserID:  author.ID,
		Content: gofakeit.Sentence(8),
	}
	if f.opts.DryRun {
		comment.ID = f.assignID()
		return comment, nil
	}
	return comment, f.db.Create(comment).Error
}

// Seed populates the database with demo users, posts, comments, replies and likes.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 6
	}
	if opts.NumPosts < 0 {
		opts.NumPosts = 0
	}
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	f := NewFactory(db, opts)
	users := make([]*models.UserRecord, 0, opts.NumUsers)

	for i, demo := range DemoUsers() {
		if i >= opts.NumUsers {
			break
		}
		demo := demo
		u, err := f.CreateUser(func(u *models.UserRecord) {
			u.Username = demo.Name
			u.Email = demo.Email
			u.UserType = string(demo.Type)
		})
		if err != nil {
			return fmt.Errorf("failed to create demo user %s: %w", demo.Email, err)
		}
		users = append(users, u)
	}
	for len(users) < opts.NumUsers {
		u, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, u)
	}
	log.Printf("✓ %d users created", len(users))

	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rnd.Intn(len(users))]
		post := f.BuildPost(author)
		if opts.DryRun {
			post.ID = f.assignID()
		} else if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}

		for j := 0; j < opts.CommentsPerPost; j++ {
			comment, err := f.CreateComment(post, users[f.rnd.Intn(len(users))])
			if err != nil {
				return fmt.Errorf("failed to create comments: %w", err)
			}
			if opts.DryRun || f.rnd.Intn(2) == 0 {
				continue
			}
			reply := &models.ReplyRecord{
				CommentID: comment.ID,
				UserID:    users[f.rnd.Intn(len(users))].ID,
				Content:   gofakeit.Sentence(6),
			}
			if err := db.Create(reply).Error; err != nil {
				return fmt.Errorf("failed to create replies: %w", err)
			}
		}

		if opts.DryRun {
			continue
		}
		for _, liker := range users {
			if f.rnd.Intn(3) != 0 {
				continue
			}
			if err := db.Create(&models.LikeRecord{UserID: liker.ID, PostID: post.ID}).Error; err != nil {
				return fmt.Errorf("failed to create likes: %w", err)
			}
		}
	}
	log.Printf("✓ %d posts created", opts.NumPosts)
	log.Println("✅ Database seeding completed successfully!")
	return nil
}
