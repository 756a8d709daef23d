package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Manager owns one save queue per open document. Queues are created lazily
// on first edit and share a single store and scheduler.
type Manager struct {
	store    Store
	sched    Scheduler
	debounce time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	queues map[string]*Queue
}

// NewManager creates a queue manager
func NewManager(store Store, sched Scheduler, debounce time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		sched:    sched,
		debounce: debounce,
		logger:   logger,
		queues:   make(map[string]*Queue),
	}
}

// QueueSave merges a patch into the document's save queue, creating the
// queue on first use.
func (m *Manager) QueueSave(docID string, patch Patch) {
	m.queue(docID).QueueSave(patch)
}

// ForceSave flushes the document's pending changes immediately. A document
// with no queue (never edited) is a no-op.
func (m *Manager) ForceSave(ctx context.Context, docID string) error {
	m.mu.Lock()
	q, ok := m.queues[docID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return q.ForceSave(ctx)
}

// State reports the document queue's save state.
func (m *Manager) State(docID string) State {
	m.mu.Lock()
	q, ok := m.queues[docID]
	m.mu.Unlock()
	if !ok {
		return StateIdle
	}
	return q.CurrentState()
}

func (m *Manager) queue(docID string) *Queue {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[docID]
	if !ok {
		q = NewQueue(docID, m.store, m.sched, m.debounce, m.logger)
		m.queues[docID] = q
	}
	return q
}
