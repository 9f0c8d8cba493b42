package seed

import (
	"context"
	"fmt"
	"log/slog"

	"blogapi/internal/cache"
	"blogapi/internal/middleware"
	"blogapi/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	Users    int
	Posts    int
	Comments int
	// MaxDays bounds how far back generated timestamps go.
	MaxDays    int
	BcryptCost int
	// RandSeed makes generation reproducible when non-zero.
	RandSeed int64
}

func (o Options) withDefaults() Options {
	if o.MaxDays <= 0 {
		o.MaxDays = 90
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = bcrypt.DefaultCost
	}
	return o
}

// Summary reports how many rows a seeding run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
}

// Seeder fills the database with generated users, posts and comments.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder returns a Seeder for db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	opts = opts.withDefaults()
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll deletes every comment, post and user, then drops their cache
// entries so tokens of removed users stop authenticating.
func (s *Seeder) ClearAll() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := cache.FlushEntities(context.Background()); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	return nil
}

// Run creates Users bloggers, Posts posts spread across them and Comments
// comments on the public posts.
func (s *Seeder) Run() (*Summary, error) {
	summary := &Summary{}
	if s.opts.Users <= 0 {
		return summary, nil
	}

	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return summary, err
		}
		users = append(users, u)
	}
	summary.Users = len(users)

	posts := make([]*models.Post, 0, s.opts.Posts)
	for i := 0; i < s.opts.Posts; i++ {
		posts = append(posts, s.factory.BuildPost(users[s.factory.rng.Intn(len(users))]))
	}
	if err := s.factory.CreatePosts(posts); err != nil {
		return summary, fmt.Errorf("create posts: %w", err)
	}
	summary.Posts = len(posts)

	public := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if !p.IsHidden {
			public = append(public, p)
		}
	}

	if len(public) > 0 {
		comments := make([]*models.Comment, 0, s.opts.Comments)
		for i := 0; i < s.opts.Comments; i++ {
			post := public[s.factory.rng.Intn(len(public))]
			author := users[s.factory.rng.Intn(len(users))]
			comments = append(comments, s.factory.BuildComment(post, author))
		}
		if err := s.factory.CreateComments(comments); err != nil {
			return summary, fmt.Errorf("create comments: %w", err)
		}
		summary.Comments = len(comments)
	}

	middleware.Logger.Info("seeding complete",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments),
	)
	return summary, nil
}
