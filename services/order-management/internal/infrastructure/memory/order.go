package memory

import (
	"context"
	"sort"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/order"
)

// OrderRepository implements order.OrderRepository.
type OrderRepository struct {
	store *Store
}

var _ order.OrderRepository = (*OrderRepository)(nil)

func sessionKey(sessionID, clOrdID string) string {
	return sessionID + "\x00" + clOrdID
}

// ExistsBySessionAndClOrdID reports whether the client order id was already used in the session.
func (r *OrderRepository) ExistsBySessionAndClOrdID(_ context.Context, sessionID, clOrdID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.clOrdIDs[sessionKey(sessionID, clOrdID)]
	return ok, nil
}

// FindByOrderID gets a copy of the order.
func (r *OrderRepository) FindByOrderID(_ context.Context, orderID string) (*orderv1.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.orders[orderID].Clone(), nil
}

// FindByOrderIDForUpdate gets a copy of the order. Transactions already hold the store exclusively.
func (r *OrderRepository) FindByOrderIDForUpdate(ctx context.Context, orderID string) (*orderv1.Order, error) {
	return r.FindByOrderID(ctx, orderID)
}

// FindByRootOrderID lists the orders of a parent/child tree by insertion order.
func (r *OrderRepository) FindByRootOrderID(_ context.Context, rootOrderID string) ([]*orderv1.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	orders := []*orderv1.Order{}
	for _, o := range r.store.orders {
		if o.RootOrderID == rootOrderID {
			orders = append(orders, o.Clone())
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

// Save inserts an order.
func (r *OrderRepository) Save(ctx context.Context, o *orderv1.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := sessionKey(o.SessionID, o.ClOrdID)
	if _, ok := r.store.clOrdIDs[key]; ok {
		return order.ErrDuplicateOrder
	}
	if _, ok := r.store.orders[o.OrderID]; ok {
		return order.ErrOrderIDInUse
	}

	o.ID = r.store.nextID()
	o.Version = 1
	r.store.orders[o.OrderID] = o.Clone()
	r.store.clOrdIDs[key] = o.OrderID

	orderID := o.OrderID
	r.store.record(ctx, func() {
		delete(r.store.orders, orderID)
		delete(r.store.clOrdIDs, key)
	})
	return nil
}

// Update replaces the stored order when the versions match.
func (r *OrderRepository) Update(ctx context.Context, o *orderv1.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.orders[o.OrderID]
	if !ok || current.Version != o.Version {
		return order.ErrConcurrentUpdate
	}

	o.Version++
	r.store.orders[o.OrderID] = o.Clone()

	r.store.record(ctx, func() {
		r.store.orders[current.OrderID] = current
	})
	return nil
}
