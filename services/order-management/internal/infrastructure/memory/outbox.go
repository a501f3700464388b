package memory

import (
	"context"
	"sort"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/outbox"
)

// OutboxRepository implements outbox.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

var _ outbox.OutboxRepository = (*OutboxRepository)(nil)

// Save stores a snapshot of record.Order.
func (r *OutboxRepository) Save(ctx context.Context, record *orderv1.OutboxRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record.ID = r.store.nextID()
	record.CreatedAt = r.store.now()

	entry := &outboxEntry{
		record: &orderv1.OutboxRecord{
			ID:        record.ID,
			Order:     record.Order.Clone(),
			CreatedAt: record.CreatedAt,
		},
	}
	r.store.outbox[record.ID] = entry

	id := record.ID
	t := r.store.record(ctx, func() {
		delete(r.store.outbox, id)
	})
	if t == nil {
		entry.committed = true
	} else {
		t.outbox = append(t.outbox, id)
	}
	return nil
}

// FindByID gets a committed record.
func (r *OutboxRepository) FindByID(_ context.Context, id int64) (*orderv1.OutboxRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.outbox[id]
	if !ok || !e.committed {
		return nil, nil
	}
	return cloneRecord(e.record), nil
}

// DeleteByID removes a record.
func (r *OutboxRepository) DeleteByID(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.outbox, id)
	return nil
}

// FindAllPending lists up to limit committed records, oldest first.
func (r *OutboxRepository) FindAllPending(_ context.Context, limit int) ([]*orderv1.OutboxRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := []*orderv1.OutboxRecord{}
	for _, e := range r.store.outbox {
		if e.committed {
			records = append(records, cloneRecord(e.record))
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// FindPendingByOrderID lists up to limit committed records of one order, oldest first.
func (r *OutboxRepository) FindPendingByOrderID(_ context.Context, orderID string, limit int) ([]*orderv1.OutboxRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := []*orderv1.OutboxRecord{}
	for _, e := range r.store.outbox {
		if e.committed && e.record.Order != nil && e.record.Order.OrderID == orderID {
			records = append(records, cloneRecord(e.record))
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// CountPending counts the committed records.
func (r *OutboxRepository) CountPending(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, e := range r.store.outbox {
		if e.committed {
			n++
		}
	}
	return n, nil
}

func cloneRecord(r *orderv1.OutboxRecord) *orderv1.OutboxRecord {
	return &orderv1.OutboxRecord{
		ID:        r.ID,
		Order:     r.Order.Clone(),
		CreatedAt: r.CreatedAt,
	}
}
