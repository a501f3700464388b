// Package memory is a process-local store implementing the order repositories
// and postgresql.Transaction. Transactions are serialized; writes inside a
// transaction are undone on rollback and outbox records become visible to
// readers outside the transaction only after commit.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

type txKey struct{}

type txn struct {
	store *Store
	undo  []func()
	// outbox ids written by this transaction
	outbox []int64
	done   bool
}

type outboxEntry struct {
	record    *orderv1.OutboxRecord
	committed bool
}

// Store holds every table in memory.
type Store struct {
	sem chan struct{}

	mu         sync.RWMutex
	orders     map[string]*orderv1.Order
	clOrdIDs   map[string]string
	events     []*orderv1.OrderEvent
	executions []*orderv1.Execution
	execIDs    map[string]struct{}
	outbox     map[int64]*outboxEntry
	seq        int64

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sem:      make(chan struct{}, 1),
		orders:   map[string]*orderv1.Order{},
		clOrdIDs: map[string]string{},
		execIDs:  map[string]struct{}{},
		outbox:   map[int64]*outboxEntry{},
		now:      time.Now,
	}
}

// Orders returns the order repository view of the store.
func (s *Store) Orders() *OrderRepository { return &OrderRepository{store: s} }

// Events returns the event repository view of the store.
func (s *Store) Events() *EventRepository { return &EventRepository{store: s} }

// Executions returns the execution repository view of the store.
func (s *Store) Executions() *ExecutionRepository { return &ExecutionRepository{store: s} }

// Outbox returns the outbox repository view of the store.
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{store: s} }

// Begin waits for exclusive access and returns a context carrying the transaction.
func (s *Store) Begin(ctx context.Context) (context.Context, error) {
	if t := s.txFrom(ctx); t != nil && !t.done {
		return nil, fmt.Errorf("failed to begin transaction: already in a transaction")
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to begin transaction: %w", ctx.Err())
	}

	return context.WithValue(ctx, txKey{}, &txn{store: s}), nil
}

// Commit makes the transaction's writes permanent.
func (s *Store) Commit(ctx context.Context) error {
	t := s.txFrom(ctx)
	if t == nil {
		return fmt.Errorf("no transaction found in context")
	}
	if t.done {
		return fmt.Errorf("transaction already closed")
	}

	s.mu.Lock()
	for _, id := range t.outbox {
		if e, ok := s.outbox[id]; ok {
			e.committed = true
		}
	}
	s.mu.Unlock()

	s.finish(t)
	return nil
}

// Rollback undoes the transaction's writes. Rolling back a closed transaction is a no-op.
func (s *Store) Rollback(ctx context.Context) error {
	t := s.txFrom(ctx)
	if t == nil {
		return fmt.Errorf("no transaction found in context")
	}
	if t.done {
		return nil
	}

	s.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	s.mu.Unlock()

	s.finish(t)
	return nil
}

func (s *Store) finish(t *txn) {
	t.done = true
	t.undo = nil
	t.outbox = nil
	<-s.sem
}

func (s *Store) txFrom(ctx context.Context) *txn {
	t, ok := ctx.Value(txKey{}).(*txn)
	if !ok || t.store != s {
		return nil
	}
	return t
}

// record registers an undo step when ctx carries an open transaction. Callers hold s.mu.
func (s *Store) record(ctx context.Context, undo func()) *txn {
	t := s.txFrom(ctx)
	if t == nil || t.done {
		return nil
	}
	t.undo = append(t.undo, undo)
	return t
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}
