package memory

import (
	"context"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/execution"
)

// ExecutionRepository implements execution.ExecutionRepository.
type ExecutionRepository struct {
	store *Store
}

var _ execution.ExecutionRepository = (*ExecutionRepository)(nil)

// Save stores a copy of e.
func (r *ExecutionRepository) Save(ctx context.Context, e *orderv1.Execution) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.execIDs[e.ExecID]; ok {
		return execution.ErrDuplicateExecution
	}

	e.ID = r.store.nextID()
	e.CreatedAt = r.store.now()
	r.store.executions = append(r.store.executions, e.Clone())
	r.store.execIDs[e.ExecID] = struct{}{}

	n := len(r.store.executions) - 1
	execID := e.ExecID
	r.store.record(ctx, func() {
		r.store.executions = r.store.executions[:n]
		delete(r.store.execIDs, execID)
	})
	return nil
}

// FindByOrderID lists the executions of an order oldest first.
func (r *ExecutionRepository) FindByOrderID(_ context.Context, orderID string) ([]*orderv1.Execution, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	executions := []*orderv1.Execution{}
	for _, e := range r.store.executions {
		if e.OrderID == orderID {
			executions = append(executions, e.Clone())
		}
	}
	return executions, nil
}
