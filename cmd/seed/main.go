// Command main runs the database seeder for the blog.
package main

import (
	"flag"
	"log"

	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 50, "Number of posts to create")
	numComments := flag.Int("comments", 100, "Number of comments to create")
	fixtures := flag.String("fixtures", "", "Load a YAML fixtures file instead of generating data")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	// Connected so -clean can drop cached users and posts.
	cache.InitRedis(cfg.RedisURL)
	defer func() { _ = cache.Close() }()

	s := seed.NewSeeder(db, seed.Options{
		Users:      *numUsers,
		Posts:      *numPosts,
		Comments:   *numComments,
		BcryptCost: cfg.BcryptCost,
		RandSeed:   *randSeed,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var summary *seed.Summary
	if *fixtures != "" {
		fx, err := seed.LoadFixtures(*fixtures)
		if err != nil {
			log.Fatalf("Failed to load fixtures: %v", err)
		}
		summary, err = fx.Apply(db, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	} else {
		log.Printf("Target: %d users, %d posts, %d comments", *numUsers, *numPosts, *numComments)
		summary, err = s.Run()
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Printf("Generated users share the password: %s", seed.DefaultPassword)
	}

	log.Printf("Done: %d users, %d posts, %d comments", summary.Users, summary.Posts, summary.Comments)
}
