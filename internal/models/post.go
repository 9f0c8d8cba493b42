package models

import "time"

// Post is a blog entry written by a user. Hidden posts are visible only to
// their author and admins.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null;index" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsHidden  bool      `gorm:"not null" json:"isHidden"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// AuthorName returns the author's name, or "Unknown" when it was not loaded.
func (p *Post) AuthorName() string {
	if p.Author == nil || p.Author.Name == "" {
		return "Unknown"
	}
	return p.Author.Name
}
