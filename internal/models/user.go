// Package models defines the persistent entities and the application error type.
package models

import "time"

// UserType is the role a user holds.
type UserType string

const (
	UserTypeBlogger UserType = "BLOGGER"
	UserTypeAdmin   UserType = "ADMIN"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserTypeBlogger || t == UserTypeAdmin
}

// User represents an account in the system.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Type         UserType  `gorm:"type:varchar(16);not null;default:'BLOGGER';index" json:"type"`
	Name         string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Posts    []Post    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

