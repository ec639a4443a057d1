// Package offline implements the device-local capture queue and its
// synchronization against the shared record store.
package offline

import (
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"
)

// KV is the durable local storage capability the queue runs on: byte values
// under byte keys, nothing more. Absent keys yield a nil value and no error.
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
}

var queueBucket = []byte("offline")

// BoltKV stores values in a single bucket of a bbolt file. One file per
// device; bbolt serializes writers itself.
type BoltKV struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the queue file at path.
func OpenBolt(path string) (*BoltKV, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("offline: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(queueBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("offline: create bucket: %w", err)
	}
	return &BoltKV{db: db}, nil
}

// Get returns the stored value, or nil when the key is absent.
func (b *BoltKV) Get(key []byte) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(queueBucket).Get(key); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put writes the value atomically.
func (b *BoltKV) Put(key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(queueBucket).Put(key, value)
	})
}

// Close releases the underlying file.
func (b *BoltKV) Close() error {
	return b.db.Close()
}

// MemoryKV is an in-memory KV used in tests and as a scratch store.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailPut, when set, makes every Put return this error. Lets tests
	// exercise the persistence-failure path.
	FailPut error
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Put(key, value []byte) error {
	if m.FailPut != nil {
		return m.FailPut
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}
