package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/holidaycal/internal/common"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

func TestMemoryRepository_CreateExistsGet(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, &models.User{ID: testUserID, Name: "Test User", Email: "Test@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	ok, err := r.Exists(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Exists(ctx, "644a612a1fe93a8765432110")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := r.GetByID(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "Test User", got.Name)

	_, err = r.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestMemoryRepository_Duplicates(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, &models.User{ID: testUserID, Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.User{ID: testUserID, Name: "B", Email: "b@example.com"})
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))

	_, err = r.Create(ctx, &models.User{Name: "C", Email: " A@EXAMPLE.COM"})
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))
}

func TestMemoryRepository_ListOrdered(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := r.Create(ctx, &models.User{Name: "second", Email: "2@example.com", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.User{Name: "first", Email: "1@example.com", CreatedAt: base})
	require.NoError(t, err)

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "second", got[1].Name)

	// returned values are copies
	got[0].Name = "changed"
	again, _ := r.List(ctx)
	assert.Equal(t, "first", again[0].Name)
}
