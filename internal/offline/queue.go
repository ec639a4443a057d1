package offline

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"zakatku-backend/internal/domain"
)

// queueKey holds the whole queue as one JSON array, mirroring the original
// single-slot layout. The queue is small (one device's unsynced day at most)
// so whole-value rewrites are fine.
var queueKey = []byte("offline_donasi")

// Queue is the durable, append-only staging area for donations captured
// without connectivity. One logical writer per device; the mutex covers
// hosts that run capture and sync from separate goroutines.
type Queue struct {
	mu  sync.Mutex
	kv  KV
	now func() time.Time
}

// NewQueue creates a queue over the given local storage.
func NewQueue(kv KV) *Queue {
	return &Queue{kv: kv, now: time.Now}
}

// Enqueue stages a draft and returns the new queue length. The local id
// combines a nanosecond timestamp with a random component so rapid repeated
// captures stay distinct even without a reliable clock.
func (q *Queue) Enqueue(draft domain.DonationDraft) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return 0, err
	}
	now := q.now()
	items = append(items, domain.QueueItem{
		LocalID: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
		SavedAt: now,
		Draft:   draft,
	})
	if err := q.store(items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// List returns all queued items in insertion order without mutating the
// queue. Safe to call whether or not the device is online.
func (q *Queue) List() ([]domain.QueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

// Count returns the current queue length.
func (q *Queue) Count() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	items, err := q.load()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// RemoveAll clears the queue after a fully successful synchronization pass.
func (q *Queue) RemoveAll() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.store(nil)
}

// Replace overwrites the queue contents in one write. The synchronizer uses
// it to keep exactly the items that failed, preserving order and local ids.
func (q *Queue) Replace(items []domain.QueueItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.store(items)
}

func (q *Queue) load() ([]domain.QueueItem, error) {
	raw, err := q.kv.Get(queueKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var items []domain.QueueItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode queue: %v", domain.ErrPersistence, err)
	}
	return items, nil
}

func (q *Queue) store(items []domain.QueueItem) error {
	if items == nil {
		items = []domain.QueueItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encode queue: %v", domain.ErrPersistence, err)
	}
	if err := q.kv.Put(queueKey, raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}
