package validate

import (
	"fmt"
	"net/mail"
)

// Text field length limits shared by the API and the gallery page forms.
const (
	MaxTitleLength    = 200
	MaxURLLength      = 2048
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

func checkLen(value string, max int, field string) string {
	if len(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func Title(s string) string    { return checkLen(s, MaxTitleLength, "title") }
func VideoURL(s string) string { return checkLen(s, MaxURLLength, "video URL") }

func Email(s string) string {
	if msg := checkLen(s, MaxEmailLength, "email"); msg != "" {
		return msg
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return "invalid email address"
	}
	return ""
}

// Password enforces the bcrypt input bounds.
func Password(s string) string {
	if len(s) < MinPasswordLength {
		return fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	}
	if len(s) > MaxPasswordLength {
		return fmt.Sprintf("password must be at most %d characters", MaxPasswordLength)
	}
	return ""
}

// FieldLimits returns a map of field names to max lengths for the page forms.
func FieldLimits() map[string]int {
	return map[string]int{
		"title":    MaxTitleLength,
		"videoURL": MaxURLLength,
		"email":    MaxEmailLength,
	}
}
