package repomanager

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/events"
	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/users"
)

const DefaultMongoDatabase = "country-info-app"

type MongoRepositoryManager struct {
	client *mongo.Client
	users  *users.MongoRepository
	events *events.MongoRepository
}

// OpenMongo connects to uri, pings the primary and makes sure the indexes
// exist. The database name comes from database, then from the URI path, then
// DefaultMongoDatabase.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	opts := options.Client().ApplyURI(uri)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongodb uri: %w", err)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(mongoDatabaseName(uri, database))
	m := &MongoRepositoryManager{
		client: client,
		users:  users.NewMongoRepository(db),
		events: events.NewMongoRepository(db),
	}

	if err := m.users.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := m.events.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return m, nil
}

func mongoDatabaseName(uri, database string) string {
	if database != "" {
		return database
	}
	if name := databaseFromURI(uri); name != "" {
		return name
	}
	return DefaultMongoDatabase
}

// databaseFromURI returns the default database named in a connection
// string, e.g. "app" in mongodb://host:27017/app?x=y. Unparsable URIs yield "".
func databaseFromURI(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return ""
	}
	return cs.Database
}

func (m *MongoRepositoryManager) Backend() string { return BackendMongo }

func (m *MongoRepositoryManager) Users() users.Repository { return m.users }

func (m *MongoRepositoryManager) Events() events.Repository { return m.events }

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
