// Command seed fills the development database with demo data.
package main

import (
	"flag"
	"log"

	"uniconnect/internal/config"
	"uniconnect/internal/database"
	"uniconnect/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 12, "Number of users to create")
	numPosts := flag.Int("posts", 40, "Number of posts to create")
	comments := flag.Int("comments", 2, "Comments per post")
	maxDays := flag.Int("days", 30, "Spread post dates over this many days")
	fast := flag.Bool("fast", false, "Skip bcrypt hashing (accounts cannot log in)")
	dryRun := flag.Bool("dry-run", false, "Build records without writing them")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	err = seed.Seed(db, seed.Options{
		NumUsers:        *numUsers,
		NumPosts:        *numPosts,
		CommentsPerPost: *comments,
		MaxDays:         *maxDays,
		SkipBcrypt:      *fast,
		DryRun:          *dryRun,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
	log.Printf("📧 All demo users have the password: %s", seed.DemoPassword)
}
