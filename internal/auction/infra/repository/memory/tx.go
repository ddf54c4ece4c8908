package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/greenbay-io/greenbay/internal/shared/storage"
)

// Begin makes Store a storage.TxManager. A memory transaction stages
// its writes and takes entity locks on demand; Commit applies
// everything under the store mutex, Rollback discards it. Either way
// the locks are released.
func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	return &memTx{store: s, held: make(map[*sync.Mutex]bool)}, nil
}

type memTx struct {
	store   *Store
	mu      sync.Mutex
	writes  []func()
	held    map[*sync.Mutex]bool
	unlocks []func()
	done    bool
}

func (t *memTx) stage(w func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = append(t.writes, w)
}

// hold takes l on behalf of the transaction; it stays held until
// commit or rollback, like a row lock. Re-taking a lock the
// transaction already holds is a no-op, same as re-locking a row.
func (t *memTx) hold(l *sync.Mutex) {
	t.mu.Lock()
	if t.held[l] {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	l.Lock()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held[l] = true
	t.unlocks = append(t.unlocks, l.Unlock)
}

func (t *memTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errors.New("transaction already closed")
	}
	t.done = true

	t.store.mu.Lock()
	for _, w := range t.writes {
		w()
	}
	t.store.mu.Unlock()

	t.release()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	t.writes = nil
	t.release()
	return nil
}

func (t *memTx) release() {
	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}
	t.unlocks = nil
	t.held = nil
}

func txFrom(tx storage.Tx) (*memTx, error) {
	t, ok := tx.(*memTx)
	if !ok {
		return nil, errors.New("transaction handle does not belong to the memory store")
	}
	return t, nil
}
