// Package repomanager selects a storage backend and hands out the
// repositories bound to it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/events"
	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/users"
)

const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongodb"
	BackendMemory   = "memory"
)

// RepositoryManager owns one storage connection and the repositories built
// on top of it.
type RepositoryManager interface {
	Backend() string
	Users() users.Repository
	Events() events.Repository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
