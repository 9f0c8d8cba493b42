// Package main provides admin management utilities for the blog.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/joho/godotenv"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <user_id>     - Promote user to ADMIN")
	fmt.Println("  go run ./cmd/admin demote <user_id>      - Demote user to BLOGGER")
	fmt.Println("  go run ./cmd/admin list-admins           - List all admins")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	// Connected so SetType can drop cached copies of the user.
	cache.InitRedis(cfg.RedisURL)
	defer func() { _ = cache.Close() }()

	users := repository.NewUserRepository(db)
	ctx := context.Background()

	switch command := os.Args[1]; command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			usage()
			os.Exit(1)
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil || id == 0 {
			fmt.Printf("Invalid user ID: %s\n", os.Args[2])
			os.Exit(1)
		}
		target := models.UserTypeAdmin
		if command == "demote" {
			target = models.UserTypeBlogger
		}
		if err := setType(ctx, users, uint(id), target); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

	case "list-admins":
		listAdmins(ctx, users)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

func setType(ctx context.Context, users repository.UserRepository, id uint, target models.UserType) error {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return fmt.Errorf("user with ID %d not found", id)
		}
		return err
	}

	if user.Type == target {
		fmt.Printf("User %s (ID: %d) is already %s\n", user.Name, user.ID, target)
		return nil
	}

	if target == models.UserTypeBlogger {
		admins, err := users.CountByType(ctx, models.UserTypeAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return fmt.Errorf("refusing to demote the last admin %s (ID: %d)", user.Name, user.ID)
		}
	}

	if err := users.SetType(ctx, id, target); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	fmt.Printf("Updated %s (ID: %d) to %s\n", user.Name, user.ID, target)
	return nil
}

func listAdmins(ctx context.Context, users repository.UserRepository) {
	admins, err := users.ListByType(ctx, models.UserTypeAdmin)
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Printf("Found %d admin(s):\n", len(admins))
	for _, a := range admins {
		fmt.Printf("  - %s (ID: %d, Email: %s)\n", a.Name, a.ID, a.Email)
	}
}
