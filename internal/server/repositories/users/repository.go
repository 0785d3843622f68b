// Package users stores the calendar owners. Users are read by the calendar
// logic and created only by tooling and seeding.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

type Repository interface {
	// Exists reports whether a user with id is stored. Malformed ids are
	// reported as absent, not as an error.
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Create stores user, assigning an ID and timestamps when missing.
	// A taken id or email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// prepare fills the generated fields of a user about to be inserted.
func prepare(user *models.User, now func() time.Time) {
	if user.ID == "" {
		user.ID = models.NewID()
	}
	user.Email = models.NormalizeEmail(user.Email)
	t := now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = t
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
}
