package repomanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/holidaycal/internal/common"
	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server/models"
)

const (
	TestUserID    = "644a612a1fe93a876543210f"
	TestUserName  = "Test User"
	TestUserEmail = "test@example.com"
)

// Bootstrap prepares a freshly created store, e.g. by seeding data.
type Bootstrap func(ctx context.Context, m RepositoryManager) error

// SeedTestUser is the Bootstrap used for the in-memory fallback. It creates
// the well-known development user unless it already exists.
func SeedTestUser(ctx context.Context, m RepositoryManager) error {
	_, err := m.Users().Create(ctx, &models.User{
		ID:    TestUserID,
		Name:  TestUserName,
		Email: TestUserEmail,
	})
	if err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("failed to create test user: %w", err)
	}
	return nil
}

type Options struct {
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string

	// Bootstrap runs only when the in-memory store is selected. Nil skips it.
	Bootstrap Bootstrap
}

// seams for tests
var (
	openPostgres = func(ctx context.Context, dsn string) (RepositoryManager, error) {
		return OpenPostgres(ctx, dsn)
	}
	openMongo = func(ctx context.Context, uri, database string) (RepositoryManager, error) {
		return OpenMongo(ctx, uri, database)
	}
)

// Open picks the storage backend: Postgres when a DSN is configured,
// otherwise MongoDB when a URI is configured. When neither is configured or
// the configured one cannot be reached, it falls back to the in-memory store
// and runs opts.Bootstrap on it. Open only fails when bootstrapping fails.
func Open(ctx context.Context, opts Options, logger logging.Logger) (RepositoryManager, error) {
	logger = logger.With("module", "repomanager")

	if opts.DatabaseDSN != "" {
		m, err := openPostgres(ctx, opts.DatabaseDSN)
		if err == nil {
			logger.Info(ctx, "Connected to PostgreSQL")
			return m, nil
		}
		logger.Warn(ctx, "Failed to connect to configured PostgreSQL", "error", err)
	} else if opts.MongoURI != "" {
		m, err := openMongo(ctx, opts.MongoURI, opts.MongoDatabase)
		if err == nil {
			logger.Info(ctx, "Connected to MongoDB")
			return m, nil
		}
		logger.Warn(ctx, "Failed to connect to configured MongoDB", "error", err)
	}

	logger.Info(ctx, "Using in-memory store")

	m := NewMemoryRepositoryManager()
	if opts.Bootstrap != nil {
		if err := opts.Bootstrap(ctx, m); err != nil {
			logger.Error(ctx, "Failed to bootstrap in-memory store", "error", err)
			return nil, err
		}
		logger.Info(ctx, "In-memory store bootstrapped")
	}

	return m, nil
}
