package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthorName returns the author's name, or "Unknown" when it was not loaded.
func (c *Comment) AuthorName() string {
	if c.Author == nil || c.Author.Name == "" {
		return "Unknown"
	}
	return c.Author.Name
}
