package events

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]*models.CalendarEvent
	keys   map[string]struct{}
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byUser: make(map[string][]*models.CalendarEvent),
		keys:   make(map[string]struct{}),
		now:    time.Now,
	}
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*models.CalendarEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := copyEvents(r.byUser[userID], func(*models.CalendarEvent) bool { return true })
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })

	return result, nil
}

func (r *MemoryRepository) FindInRange(_ context.Context, userID, countryCode string, from, to time.Time) ([]*models.CalendarEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lo, hi := day(from), day(to)
	result := copyEvents(r.byUser[userID], func(e *models.CalendarEvent) bool {
		d := day(e.Date)
		return e.CountryCode == countryCode && !d.Before(lo) && !d.After(hi)
	})
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })

	return result, nil
}

func (r *MemoryRepository) InsertMany(_ context.Context, events []*models.CalendarEvent) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	added := 0
	for _, e := range events {
		e.Date = day(e.Date)
		key := e.UserID + "\x00" + e.DedupKey()
		if _, dup := r.keys[key]; dup {
			continue
		}

		prepare(e, now)
		cp := *e
		r.byUser[e.UserID] = append(r.byUser[e.UserID], &cp)
		r.keys[key] = struct{}{}
		added++
	}

	return added, nil
}

func copyEvents(src []*models.CalendarEvent, keep func(*models.CalendarEvent) bool) []*models.CalendarEvent {
	out := []*models.CalendarEvent{}
	for _, e := range src {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}
