// Package events stores the holidays users add to their calendars.
//
// Every backend enforces uniqueness of (user, title, day). InsertMany skips
// rows that would violate it and reports how many rows were written, so two
// concurrent adds of the same holidays never produce duplicates.
package events

import (
	"context"
	"time"

	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

type Repository interface {
	// ListByUser returns the user's events ordered by date ascending.
	ListByUser(ctx context.Context, userID string) ([]*models.CalendarEvent, error)
	// FindInRange returns the user's events for countryCode whose date lies
	// in [from, to], both inclusive.
	FindInRange(ctx context.Context, userID, countryCode string, from, to time.Time) ([]*models.CalendarEvent, error)
	// InsertMany stores events and returns the number actually inserted.
	InsertMany(ctx context.Context, events []*models.CalendarEvent) (int, error)
}

func prepare(e *models.CalendarEvent, now time.Time) {
	if e.ID == "" {
		e.ID = models.NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
}

// day truncates t to midnight UTC of its calendar day.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
