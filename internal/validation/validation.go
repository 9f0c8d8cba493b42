// Package validation provides input validation utilities
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"blogapi/internal/models"
)

const (
	MinPasswordLength = 6
	MaxNameLength     = 64
	MaxEmailLength    = 254
	MinContentLength  = 10
	MaxCommentLength  = 10000
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func invalid(msg string) error {
	return models.NewValidationError(msg)
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		return invalid("Valid email is required")
	}
	return nil
}

// ValidateName checks that a display name is present and short enough.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("Name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalid("Name must not exceed 64 characters")
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalid("Password must be at least 6 characters long")
	}
	return nil
}

// ValidateRegistration applies the rules for new accounts.
func ValidateRegistration(name, email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	return ValidateName(name)
}

// ValidateUserType accepts an empty type or one of the known ones.
func ValidateUserType(t string) error {
	if t == "" || models.UserType(t).Valid() {
		return nil
	}
	return invalid("Type must be BLOGGER or ADMIN")
}

// ValidateLogin requires an email or a name and a password.
func ValidateLogin(name, email, password string) error {
	if email == "" && name == "" {
		return invalid("EMAIL_OR_NAME_REQUIRED")
	}
	if email != "" {
		if err := ValidateEmail(email); err != nil {
			return err
		}
	}
	if password == "" {
		return invalid("Password is required")
	}
	return nil
}

func ValidatePostCreate(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("Title is required")
	}
	if utf8.RuneCountInString(content) < MinContentLength {
		return invalid("Content must be at least 10 characters long")
	}
	return nil
}

// ValidatePostUpdate checks the fields present in a partial update.
func ValidatePostUpdate(title, content *string) error {
	if title == nil && content == nil {
		return invalid("Nothing to update")
	}
	if title != nil && strings.TrimSpace(*title) == "" {
		return invalid("Title cannot be empty")
	}
	if content != nil && utf8.RuneCountInString(*content) < MinContentLength {
		return invalid("Content must be at least 10 characters long")
	}
	return nil
}

func ValidateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return invalid("Content is required")
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return invalid("Content must not exceed 10000 characters")
	}
	return nil
}
