package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

func TestMemoryRepository_InsertSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	batch := func() []*models.CalendarEvent {
		return []*models.CalendarEvent{
			{UserID: testUserID, Title: "Christmas Day", Date: date("2024-12-25"), CountryCode: "US"},
			{UserID: testUserID, Title: "New Year's Day", Date: date("2024-01-01"), CountryCode: "US"},
			{UserID: testUserID, Title: "New Year's Day", Date: date("2024-01-01"), CountryCode: "US"},
		}
	}

	added, err := r.InsertMany(ctx, batch())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = r.InsertMany(ctx, batch())
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	list, err := r.ListByUser(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01-01", list[0].Day())
	assert.Equal(t, "2024-12-25", list[1].Day())
}

func TestMemoryRepository_SameTitleOtherUser(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	other := "644a612a1fe93a8765432110"
	added, err := r.InsertMany(ctx, []*models.CalendarEvent{
		{UserID: testUserID, Title: "Christmas Day", Date: date("2024-12-25"), CountryCode: "US"},
		{UserID: other, Title: "Christmas Day", Date: date("2024-12-25"), CountryCode: "US"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
}

func TestMemoryRepository_FindInRange(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.InsertMany(ctx, []*models.CalendarEvent{
		{UserID: testUserID, Title: "a", Date: date("2023-12-31"), CountryCode: "US"},
		{UserID: testUserID, Title: "b", Date: date("2024-01-01"), CountryCode: "US"},
		{UserID: testUserID, Title: "c", Date: date("2024-12-31"), CountryCode: "US"},
		{UserID: testUserID, Title: "d", Date: date("2024-06-01"), CountryCode: "GB"},
	})
	require.NoError(t, err)

	got, err := r.FindInRange(ctx, testUserID, "US", date("2024-01-01"), date("2024-12-31"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
}

func TestMemoryRepository_ListUnknownUserIsEmpty(t *testing.T) {
	got, err := NewMemoryRepository().ListByUser(context.Background(), testUserID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemoryRepository_ConcurrentInsertsNeverDuplicate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	var wg sync.WaitGroup
	totals := make([]int, 8)
	for i := range totals {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := r.InsertMany(ctx, []*models.CalendarEvent{
				{UserID: testUserID, Title: "Christmas Day", Date: date("2024-12-25"), CountryCode: "US"},
			})
			assert.NoError(t, err)
			totals[i] = n
		}(i)
	}
	wg.Wait()

	sum := 0
	for _, n := range totals {
		sum += n
	}
	assert.Equal(t, 1, sum)

	list, _ := r.ListByUser(ctx, testUserID)
	assert.Len(t, list, 1)
}
