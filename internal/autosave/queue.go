// Package autosave decouples high-frequency local edits from the remote
// store's write cadence. A Queue buffers partial document updates, coalesces
// them last-write-wins per field, and flushes them after a debounce delay,
// guaranteeing at most one in-flight write per document.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Patch is a partial document update: field name to new value. Merging two
// patches keeps the later value for each field.
type Patch map[string]any

// merge folds src into p, overwriting per field.
func (p Patch) merge(src Patch) {
	for k, v := range src {
		p[k] = v
	}
}

// Store is the flush target. SaveDocument applies one merged patch to the
// remote document row.
type Store interface {
	SaveDocument(ctx context.Context, docID string, patch Patch) error
}

// State of the queue's save cycle.
type State int

const (
	StateIdle State = iota
	StatePending
	StateFlushing
)

// Queue is the autosave buffer for one open document. Methods are safe for
// concurrent use; writes for the document are strictly serialized.
type Queue struct {
	docID    string
	store    Store
	sched    Scheduler
	debounce time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	cond      *sync.Cond // signaled when an in-flight flush finishes
	buffer    Patch
	flushing  bool
	cancel    CancelFunc
	lastSaved time.Time
	lastErr   error
	closed    bool
}

// NewQueue creates an autosave queue for one document.
func NewQueue(docID string, store Store, sched Scheduler, debounce time.Duration, logger *slog.Logger) *Queue {
	q := &Queue{
		docID:    docID,
		store:    store,
		sched:    sched,
		debounce: debounce,
		logger:   logger,
		now:      time.Now,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// QueueSave merges a partial update into the pending buffer and resets the
// debounce timer. May be called arbitrarily often; the buffer accumulates the
// union of all fields touched since the last successful flush.
func (q *Queue) QueueSave(patch Patch) {
	if len(patch) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}

	if q.buffer == nil {
		q.buffer = Patch{}
	}
	q.buffer.merge(patch)

	if q.cancel != nil {
		q.cancel()
	}
	q.cancel = q.sched.Schedule(q.debounce, q.onTimer)
}

// onTimer runs when the debounce delay elapses.
func (q *Queue) onTimer() {
	q.flush(context.Background())
}

// ForceSave flushes any buffered changes immediately, bypassing the debounce
// wait. If a flush is already in flight it waits for that write to finish and
// then flushes whatever accumulated behind it; no second concurrent write is
// ever issued. A queue with nothing buffered is a no-op.
func (q *Queue) ForceSave(ctx context.Context) error {
	q.mu.Lock()
	for q.flushing {
		q.cond.Wait()
	}
	if len(q.buffer) == 0 {
		q.mu.Unlock()
		return nil
	}
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.mu.Unlock()

	return q.flush(ctx)
}

// flush issues a single write containing the entire merged buffer. On failure
// the failed fields are restored under any edits queued while the write was in
// flight, so nothing is lost and a later cycle retries.
func (q *Queue) flush(ctx context.Context) error {
	q.mu.Lock()
	if q.flushing || len(q.buffer) == 0 {
		q.mu.Unlock()
		return nil
	}
	batch := q.buffer
	q.buffer = nil
	q.flushing = true
	q.mu.Unlock()

	err := q.store.SaveDocument(ctx, q.docID, batch)

	q.mu.Lock()
	q.flushing = false
	if err != nil {
		// Newer edits buffered during the flush win over the failed batch.
		restored := Patch{}
		restored.merge(batch)
		restored.merge(q.buffer)
		q.buffer = restored
		q.lastErr = err
		if !q.closed {
			if q.cancel != nil {
				q.cancel()
			}
			q.cancel = q.sched.Schedule(q.debounce, q.onTimer)
		}
		q.logger.Warn("autosave flush failed",
			"document_id", q.docID,
			"fields", len(batch),
			"error", err,
		)
	} else {
		q.lastSaved = q.now()
		q.lastErr = nil
		// Edits buffered during the write are the next batch. Their timer
		// may have fired (and bailed) while this flush held the slot, so
		// completion re-arms the debounce whenever the buffer is non-empty.
		if len(q.buffer) > 0 && !q.closed {
			if q.cancel != nil {
				q.cancel()
			}
			q.cancel = q.sched.Schedule(q.debounce, q.onTimer)
		}
		q.logger.Debug("autosave flushed",
			"document_id", q.docID,
			"fields", len(batch),
		)
	}
	q.cond.Broadcast()
	q.mu.Unlock()

	return err
}

// IsSaving reports whether a write is currently in flight.
func (q *Queue) IsSaving() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.flushing
}

// HasPending reports whether unflushed changes are buffered.
func (q *Queue) HasPending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buffer) > 0
}

// LastSaved returns the time of the last successful flush, zero if none.
func (q *Queue) LastSaved() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastSaved
}

// LastError returns the error from the most recent failed flush, nil after a
// success.
func (q *Queue) LastError() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastErr
}

// CurrentState reports where the queue is in its save cycle.
func (q *Queue) CurrentState() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	switch {
	case q.flushing:
		return StateFlushing
	case len(q.buffer) > 0:
		return StatePending
	default:
		return StateIdle
	}
}

// Close flushes any pending changes and stops the timer. The queue accepts no
// further edits afterwards.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.mu.Unlock()

	return q.ForceSave(ctx)
}
