// Package seed provides helpers to create demo data for the blog database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"blogapi/internal/auth"
	"blogapi/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db       *gorm.DB
	opts     Options
	rng      *rand.Rand
	seq      int
	cachedHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	return &Factory{db: db, opts: opts.withDefaults(), rng: rand.New(rand.NewSource(seed))}
}

func (f *Factory) next() int {
	f.seq++
	return f.seq
}

// passwordHash hashes DefaultPassword once and reuses it for every user.
func (f *Factory) passwordHash() (string, error) {
	if f.cachedHash != "" {
		return f.cachedHash, nil
	}
	hash, err := auth.HashPassword(DefaultPassword, f.opts.BcryptCost)
	if err != nil {
		return "", err
	}
	f.cachedHash = hash
	return hash, nil
}

// createdAt spreads timestamps over the last MaxDays days.
func (f *Factory) createdAt() time.Time {
	back := time.Duration(f.rng.Intn(f.opts.MaxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// CreateUser constructs and persists a BLOGGER with a unique name and email.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	n := f.next()
	user := &models.User{
		Type:         models.UserTypeBlogger,
		Name:         fmt.Sprintf("%s%d", gofakeit.Username(), n),
		Email:        fmt.Sprintf("user%d.%s", n, gofakeit.Email()),
		PasswordHash: hash,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Name, err)
	}
	return user, nil
}

// BuildPost constructs a post by author without persisting it. Roughly one
// post in four is left hidden.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:     fmt.Sprintf("%s #%d", gofakeit.Sentence(5), f.next()),
		Content:   gofakeit.Paragraph(1, 3, 12, "\n"),
		IsHidden:  f.rng.Intn(4) == 0,
		AuthorID:  author.ID,
		CreatedAt: f.createdAt(),
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePosts persists posts in a single batch.
func (f *Factory) CreatePosts(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Omit("Author").CreateInBatches(posts, 100).Error
}

// BuildComment constructs a comment by author on post without persisting it.
func (f *Factory) BuildComment(post *models.Post, author *models.User) *models.Comment {
	created := f.createdAt()
	if created.Before(post.CreatedAt) {
		created = post.CreatedAt.Add(time.Duration(f.rng.Intn(120)+1) * time.Minute)
	}
	return &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Content:   gofakeit.Sentence(f.rng.Intn(15) + 3),
		CreatedAt: created,
	}
}

// CreateComments persists comments in a single batch.
func (f *Factory) CreateComments(comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	return f.db.Omit("Author").CreateInBatches(comments, 100).Error
}
