package seed

import (
	"fmt"
	"os"

	"blogapi/internal/auth"
	"blogapi/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is a hand-written data set, loaded from YAML:
//
//	users:
//	  - {name: ann, email: ann@blog.dev, password: secret1, type: BLOGGER}
//	posts:
//	  - {author: ann, title: Hello, content: "First post body", published: true}
//	comments:
//	  - {author: ann, post: Hello, content: "Nice"}
type Fixtures struct {
	Users    []UserFixture    `yaml:"users"`
	Posts    []PostFixture    `yaml:"posts"`
	Comments []CommentFixture `yaml:"comments"`
}

type UserFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Type     string `yaml:"type"`
}

// PostFixture references its author by name.
type PostFixture struct {
	Author    string `yaml:"author"`
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	Published bool   `yaml:"published"`
}

// CommentFixture references its author by name and its post by title.
type CommentFixture struct {
	Author  string `yaml:"author"`
	Post    string `yaml:"post"`
	Content string `yaml:"content"`
}

// LoadFixtures reads and parses a YAML fixtures file.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(raw)
}

// ParseFixtures parses YAML fixtures and checks their references.
func ParseFixtures(raw []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixtures) validate() error {
	users := make(map[string]bool, len(fx.Users))
	for _, u := range fx.Users {
		if u.Name == "" || u.Email == "" || u.Password == "" {
			return fmt.Errorf("user fixture %q: name, email and password are required", u.Name)
		}
		if u.Type != "" && !models.UserType(u.Type).Valid() {
			return fmt.Errorf("user fixture %q: unknown type %q", u.Name, u.Type)
		}
		users[u.Name] = true
	}

	posts := make(map[string]bool, len(fx.Posts))
	for _, p := range fx.Posts {
		if !users[p.Author] {
			return fmt.Errorf("post fixture %q: unknown author %q", p.Title, p.Author)
		}
		if posts[p.Title] {
			return fmt.Errorf("post fixture %q: duplicate title", p.Title)
		}
		posts[p.Title] = true
	}

	for _, c := range fx.Comments {
		if !users[c.Author] {
			return fmt.Errorf("comment fixture: unknown author %q", c.Author)
		}
		if !posts[c.Post] {
			return fmt.Errorf("comment fixture: unknown post %q", c.Post)
		}
	}
	return nil
}

// Apply inserts the fixtures in one transaction, hashing passwords with cost.
func (fx *Fixtures) Apply(db *gorm.DB, cost int) (*Summary, error) {
	summary := &Summary{}
	err := db.Transaction(func(tx *gorm.DB) error {
		users := make(map[string]*models.User, len(fx.Users))
		for _, u := range fx.Users {
			hash, err := auth.HashPassword(u.Password, cost)
			if err != nil {
				return err
			}
			userType := models.UserType(u.Type)
			if userType == "" {
				userType = models.UserTypeBlogger
			}
			user := &models.User{Type: userType, Name: u.Name, Email: u.Email, PasswordHash: hash}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create user %s: %w", u.Name, err)
			}
			users[u.Name] = user
		}

		posts := make(map[string]*models.Post, len(fx.Posts))
		for _, p := range fx.Posts {
			post := &models.Post{
				Title:    p.Title,
				Content:  p.Content,
				IsHidden: !p.Published,
				AuthorID: users[p.Author].ID,
			}
			if err := tx.Omit("Author").Create(post).Error; err != nil {
				return fmt.Errorf("create post %s: %w", p.Title, err)
			}
			posts[p.Title] = post
		}

		for _, c := range fx.Comments {
			comment := &models.Comment{
				PostID:   posts[c.Post].ID,
				AuthorID: users[c.Author].ID,
				Content:  c.Content,
			}
			if err := tx.Omit("Author").Create(comment).Error; err != nil {
				return fmt.Errorf("create comment on %s: %w", c.Post, err)
			}
		}

		summary.Users = len(users)
		summary.Posts = len(posts)
		summary.Comments = len(fx.Comments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
