package users

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrijs2005/holidaycal/internal/common"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

func newMongoRepo(t *testing.T) *MongoRepository {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("holidaycal_users_test_" + models.NewID())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	r := NewMongoRepository(db)
	require.NoError(t, r.EnsureIndexes(ctx))
	return r
}

func TestMongoRepository_RoundTrip(t *testing.T) {
	r := newMongoRepo(t)
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{ID: testUserID, Name: "Test User", Email: "test@example.com"})
	require.NoError(t, err)

	ok, err := r.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Exists(ctx, "bogus")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", got.Email)

	_, err = r.Create(ctx, &models.User{Name: "Other", Email: "TEST@example.com"})
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
