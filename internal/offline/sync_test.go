package offline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"zakatku-backend/internal/domain"
)

type fakeStore struct {
	mu       sync.Mutex
	created  []domain.Donation
	reject   map[string]error // keyed by donor name
	nextID   int
	started  chan struct{}
	proceed  chan struct{}
	blockers int
}

func newFakeStore() *fakeStore {
	return &fakeStore{reject: map[string]error{}}
}

func (f *fakeStore) Create(_ context.Context, d *domain.Donation) error {
	if f.started != nil && f.blockers > 0 {
		f.blockers--
		f.started <- struct{}{}
		<-f.proceed
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.reject[d.DonorName]; ok {
		return err
	}
	f.nextID++
	d.ID = fmt.Sprintf("srv-%d", f.nextID)
	d.CreatedAt = time.Now().UTC()
	f.created = append(f.created, *d)
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	fail    error
}

func (f *fakeAudit) Record(_ context.Context, actor domain.Actor, action domain.AuditAction, table, recordID string, _, _ any) error {
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, domain.AuditEntry{
		UserID:    actor.UserID,
		UserEmail: actor.Email,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
	})
	return nil
}

func testActor() domain.Actor {
	return domain.Actor{UserID: "u1", Email: "jp@masjid.test"}
}

func seededQueue(t *testing.T, names ...string) *Queue {
	t.Helper()
	q := NewQueue(NewMemoryKV())
	for _, n := range names {
		if _, err := q.Enqueue(draft(n, 50000)); err != nil {
			t.Fatalf("seed %s: %v", n, err)
		}
	}
	return q
}

func TestSync_EmptyQueueIsNoOp(t *testing.T) {
	s := NewSynchronizer(seededQueue(t), newFakeStore(), &fakeAudit{}, zerolog.Nop())

	res, err := s.Sync(context.Background(), testActor())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.Succeeded != 0 || res.Failed != 0 {
		t.Fatalf("expected zero counts, got %+v", res)
	}
}

func TestSync_FullSuccessClearsQueueAndAuditsInOrder(t *testing.T) {
	q := seededQueue(t, "Budi", "Siti", "Andi")
	store := newFakeStore()
	trail := &fakeAudit{}
	s := NewSynchronizer(q, store, trail, zerolog.Nop())

	res, err := s.Sync(context.Background(), testActor())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.Succeeded != 3 || res.Failed != 0 {
		t.Fatalf("result = %+v, want 3/0", res)
	}
	if res.Message != "3 succeeded, 0 failed" {
		t.Fatalf("message = %q", res.Message)
	}

	if n, _ := q.Count(); n != 0 {
		t.Fatalf("queue not cleared, %d left", n)
	}
	if len(trail.entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(trail.entries))
	}
	// Replays are sequential and oldest first, so stored order matches
	// both the original queue order and the audit trail order.
	for i, name := range []string{"Budi", "Siti", "Andi"} {
		if store.created[i].DonorName != name {
			t.Fatalf("insert %d is %q, want %q", i, store.created[i].DonorName, name)
		}
		e := trail.entries[i]
		if e.Action != domain.AuditInsertOfflineSync || e.TableName != "donasi" {
			t.Fatalf("audit entry %d wrong: %+v", i, e)
		}
		if e.RecordID != store.created[i].ID {
			t.Fatalf("audit entry %d references %q, want %q", i, e.RecordID, store.created[i].ID)
		}
	}
}

func TestSync_PartialFailureRetainsItemThenRetrySucceeds(t *testing.T) {
	q := seededQueue(t, "Budi", "Siti", "Andi")
	before, _ := q.List()
	rejectedID := before[1].LocalID

	store := newFakeStore()
	store.reject["Siti"] = errors.New("store unreachable")
	trail := &fakeAudit{}
	s := NewSynchronizer(q, store, trail, zerolog.Nop())

	res, err := s.Sync(context.Background(), testActor())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.Succeeded != 2 || res.Failed != 1 {
		t.Fatalf("result = %+v, want 2/1", res)
	}
	if res.Message != "2 succeeded, 1 failed" {
		t.Fatalf("message = %q", res.Message)
	}

	left, _ := q.List()
	if len(left) != 1 || left[0].LocalID != rejectedID {
		t.Fatalf("queue should hold exactly the rejected item with its id, got %+v", left)
	}
	if len(trail.entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(trail.entries))
	}

	// The store recovers; the retained item syncs on the next pass.
	delete(store.reject, "Siti")
	res, err = s.Sync(context.Background(), testActor())
	if err != nil {
		t.Fatalf("retry sync: %v", err)
	}
	if res.Succeeded != 1 || res.Failed != 0 {
		t.Fatalf("retry result = %+v, want 1/0", res)
	}
	if n, _ := q.Count(); n != 0 {
		t.Fatalf("queue not cleared after retry, %d left", n)
	}
	if len(trail.entries) != 3 {
		t.Fatalf("expected 3 audit entries after retry, got %d", len(trail.entries))
	}
}

func TestSync_SecondPassRejectedWhileInFlight(t *testing.T) {
	q := seededQueue(t, "Budi")
	store := newFakeStore()
	store.started = make(chan struct{})
	store.proceed = make(chan struct{})
	store.blockers = 1
	s := NewSynchronizer(q, store, &fakeAudit{}, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := s.Sync(context.Background(), testActor())
		done <- err
	}()

	<-store.started // first pass is mid-replay
	if _, err := s.Sync(context.Background(), testActor()); !errors.Is(err, domain.ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
	close(store.proceed)
	if err := <-done; err != nil {
		t.Fatalf("first pass failed: %v", err)
	}

	// The flag is released; a later pass runs normally.
	if _, err := s.Sync(context.Background(), testActor()); err != nil {
		t.Fatalf("follow-up pass: %v", err)
	}
}

func TestSync_AuditFailureIsSoft(t *testing.T) {
	q := seededQueue(t, "Budi")
	trail := &fakeAudit{fail: errors.New("audit table unreachable")}
	s := NewSynchronizer(q, newFakeStore(), trail, zerolog.Nop())

	res, err := s.Sync(context.Background(), testActor())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	// The insert committed, so the item counts as synced and leaves the
	// queue even though its audit entry is missing.
	if res.Succeeded != 1 || res.Failed != 0 {
		t.Fatalf("result = %+v, want 1/0", res)
	}
	if n, _ := q.Count(); n != 0 {
		t.Fatalf("queue should be empty, %d left", n)
	}
}

func TestStatus_Projection(t *testing.T) {
	tests := []struct {
		online  bool
		pending int
		want    domain.ConnState
	}{
		{false, 0, domain.ConnOffline},
		{false, 3, domain.ConnOffline},
		{true, 2, domain.ConnPendingSync},
		{true, 0, domain.ConnSynced},
	}
	for _, tt := range tests {
		got := Status(tt.online, tt.pending)
		if got.State != tt.want {
			t.Fatalf("Status(%v, %d) = %s, want %s", tt.online, tt.pending, got.State, tt.want)
		}
		if tt.want != domain.ConnSynced && got.Pending != tt.pending {
			t.Fatalf("Status(%v, %d) pending = %d", tt.online, tt.pending, got.Pending)
		}
	}
}
