package repomanager

import (
	"context"

	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/events"
	"github.com/dmitrijs2005/holidaycal/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Data is lost
// on restart.
type MemoryRepositoryManager struct {
	users  *users.MemoryRepository
	events *events.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:  users.NewMemoryRepository(),
		events: events.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Backend() string { return BackendMemory }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Events() events.Repository { return m.events }

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close(context.Context) error { return nil }
