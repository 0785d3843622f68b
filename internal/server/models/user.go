// Package models defines the records persisted by the server and the
// upstream payloads it passes through to clients.
package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User owns a calendar. Users are created out of band and only read by the
// calendar logic.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email (already normalized) looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NewID returns a fresh 24 hex digit identifier. The same format is used by
// every storage backend.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a 24 hex digit identifier.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
