package autosave

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

// manualScheduler drives the debounce by hand so tests need no real timers.
type manualScheduler struct {
	mu      sync.Mutex
	pending func()
}

// Schedule keeps a single pending slot: the latest task replaces any earlier
// one, which matches how the queue always cancels before rescheduling.
func (s *manualScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	s.pending = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
	}
}

// fire runs the pending task, if any.
func (s *manualScheduler) fire() {
	s.mu.Lock()
	fn := s.pending
	s.pending = nil
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// fakeStore records flushes and can fail or block on demand.
type fakeStore struct {
	mu       sync.Mutex
	saves    []Patch
	failNext error
	inFlight int
	maxSeen  int
	block    chan struct{} // when set, SaveDocument waits on it
}

func (f *fakeStore) SaveDocument(ctx context.Context, docID string, patch Patch) error {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.saves = append(f.saves, patch)
	return nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func newTestQueue(store *fakeStore, sched *manualScheduler) *Queue {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewQueue("doc-1", store, sched, 1500*time.Millisecond, logger)
}

func TestQueueSave_CoalescesFields(t *testing.T) {
	store := &fakeStore{}
	sched := &manualScheduler{}
	q := newTestQueue(store, sched)

	q.QueueSave(Patch{"title": "A"})
	q.QueueSave(Patch{"content": map[string]any{"root": nil}})

	if q.CurrentState() != StatePending {
		t.Fatalf("state = %v, want Pending", q.CurrentState())
	}

	sched.fire()

	if got := store.saveCount(); got != 1 {
		t.Fatalf("flush count = %d, want exactly 1", got)
	}
	flushed := store.saves[0]
	if flushed["title"] != "A" {
		t.Errorf("flushed title = %v, want A", flushed["title"])
	}
	if _, ok := flushed["content"]; !ok {
		t.Error("flushed patch missing content field")
	}
	if q.CurrentState() != StateIdle {
		t.Errorf("state after flush = %v, want Idle", q.CurrentState())
	}
}

func TestQueueSave_LastWriteWinsPerField(t *testing.T) {
	store := &fakeStore{}
	sched := &manualScheduler{}
	q := newTestQueue(store, sched)

	q.QueueSave(Patch{"title": "first"})
	q.QueueSave(Patch{"title": "second"})
	sched.fire()

	if store.saves[0]["title"] != "second" {
		t.Errorf("title = %v, want second (last write wins)", store.saves[0]["title"])
	}
}

func TestForceSave_FlushesImmediately(t *testing.T) {
	store := &fakeStore{}
	sched := &manualScheduler{}
	q := newTestQueue(store, sched)

	q.QueueSave(Patch{"title": "now"})
	if err := q.ForceSave(context.Background()); err != nil {
		t.Fatalf("ForceSave: %v", err)
	}

	if store.saveCount() != 1 {
		t.Fatalf("flush count = %d, want 1", store.saveCount())
	}
	if q.LastSaved().IsZero() {
		t.Error("lastSaved not recorded")
	}

	// Idle queue: no-op, no extra write
	if err := q.ForceSave(context.Background()); err != nil {
		t.Fatalf("ForceSave on idle queue: %v", err)
	}
	if store.saveCount() != 1 {
		t.Errorf("idle ForceSave issued a write")
	}
}

func TestFlushFailure_RetainsBuffer(t *testing.T) {
	store := &fakeStore{failNext: errors.New("network down")}
	sched := &manualScheduler{}
	q := newTestQueue(store, sched)

	q.QueueSave(Patch{"title": "keep me"})
	sched.fire()

	if store.saveCount() != 0 {
		t.Fatal("failed flush should not record a save")
	}
	if q.LastError() == nil {
		t.Error("flush error not surfaced")
	}
	if q.CurrentState() != StatePending {
		t.Fatalf("state after failure = %v, want Pending", q.CurrentState())
	}

	// Next cycle retries with the same payload
	sched.fire()
	if store.saveCount() != 1 {
		t.Fatalf("retry flush count = %d, want 1", store.saveCount())
	}
	if store.saves[0]["title"] != "keep me" {
		t.Errorf("retried patch lost field: %v", store.saves[0])
	}
	if q.LastError() != nil {
		t.Error("error not cleared after successful retry")
	}
}

func TestFlushFailure_NewerEditsWin(t *testing.T) {
	store := &fakeStore{failNext: errors.New("transient")}
	sched := &manualScheduler{}
	q := newTestQueue(store, sched)

	q.QueueSave(Patch{"title": "old", "content": "v1"})
	sched.fire() // fails

	// Edit arriving after the failed flush supersedes the restored field
	q.QueueSave(Patch{"title": "new"})
	sched.fire()

	if store.saveCount() != 1 {
		t.Fatalf("flush count = %d, want 1", store.saveCount())
	}
	flushed := store.saves[0]
	if flushed["title"] != "new" {
		t.Errorf("title = %v, want new", flushed["title"])
	}
	if flushed["content"] != "v1" {
		t.Errorf("content = %v, want v1 (field from failed attempt retained)", flushed["content"])
	}
}

func TestAtMostOneInFlight(t *testing.T) {
	block := make(chan struct{})
	store := &fakeStore{block: block}
	sched := &manualScheduler{}
	q := newTestQueue(store, sched)

	q.QueueSave(Patch{"title": "first"})

	flushDone := make(chan struct{})
	go func() {
		sched.fire() // blocks inside SaveDocument
		close(flushDone)
	}()

	// Wait until the write is actually in flight
	waitFor(t, func() bool { return q.IsSaving() })

	// Edits during a flush buffer up behind it
	q.QueueSave(Patch{"title": "second"})

	forceDone := make(chan struct{})
	go func() {
		_ = q.ForceSave(context.Background())
		close(forceDone)
	}()

	// Let both writes proceed
	close(block)
	<-flushDone
	<-forceDone

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.maxSeen > 1 {
		t.Errorf("concurrent writes observed: %d", store.maxSeen)
	}
	if len(store.saves) != 2 {
		t.Fatalf("save count = %d, want 2 (in-flight + queued)", len(store.saves))
	}
	if store.saves[0]["title"] != "first" || store.saves[1]["title"] != "second" {
		t.Errorf("writes reordered: %v", store.saves)
	}
}

func TestEditDuringSlowFlush_FlushesAsNextBatch(t *testing.T) {
	block := make(chan struct{})
	store := &fakeStore{block: block}
	sched := &manualScheduler{}
	q := newTestQueue(store, sched)

	q.QueueSave(Patch{"title": "first"})

	flushDone := make(chan struct{})
	go func() {
		sched.fire() // blocks inside SaveDocument
		close(flushDone)
	}()
	waitFor(t, func() bool { return q.IsSaving() })

	// An edit lands while the write is in flight, and its debounce elapses
	// before the write returns: the timer callback finds the flush slot
	// taken and must not strand the buffered batch.
	q.QueueSave(Patch{"title": "second"})
	sched.fire()

	close(block)
	<-flushDone

	// Completion re-armed the debounce for the buffered edit
	sched.fire()
	waitFor(t, func() bool { return store.saveCount() == 2 })

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.saves[1]["title"] != "second" {
		t.Errorf("second batch = %v, want the mid-flight edit", store.saves[1])
	}
	if q.CurrentState() != StateIdle {
		t.Errorf("state = %v, want StateIdle", q.CurrentState())
	}
}

func TestClose_FlushesPending(t *testing.T) {
	store := &fakeStore{}
	sched := &manualScheduler{}
	q := newTestQueue(store, sched)

	q.QueueSave(Patch{"title": "final"})
	if err := q.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if store.saveCount() != 1 {
		t.Fatalf("Close did not flush pending changes")
	}

	// Edits after close are dropped
	q.QueueSave(Patch{"title": "too late"})
	sched.fire()
	if store.saveCount() != 1 {
		t.Error("queue accepted edits after Close")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
