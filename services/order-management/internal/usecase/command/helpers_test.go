package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/memory"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/outbox"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/statemachine"
	"github.com/shopspring/decimal"
)

type spyNotifier struct {
	mu  sync.Mutex
	ids []int64
}

func (s *spyNotifier) Notify(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
}

func (s *spyNotifier) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.ids...)
}

type spyLocker struct {
	mu       sync.Mutex
	keys     []string
	released int
	err      error
}

func (s *spyLocker) Lock(_ context.Context, key string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.keys = append(s.keys, key)
	return func() {
		s.mu.Lock()
		s.released++
		s.mu.Unlock()
	}, nil
}

// failingOutbox fails every Save to simulate a crash between the order insert and the outbox insert.
type failingOutbox struct {
	outbox.OutboxRepository
}

func (failingOutbox) Save(context.Context, *orderv1.OutboxRecord) error {
	return errors.New("outbox unavailable")
}

func memoryDeps(store *memory.Store, machine *statemachine.Machine) Dependencies {
	return Dependencies{
		Orders:     store.Orders(),
		Events:     store.Events(),
		Executions: store.Executions(),
		Outbox:     store.Outbox(),
		Tx:         store,
		Machine:    machine,
		Logger:     logger.NewNop(),
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ORD-%d", n)
	}
}

func limitBuy(sessionID, clOrdID string) *orderv1.CreateOrderCmd {
	return &orderv1.CreateOrderCmd{
		SessionID: sessionID,
		ClOrdID:   clOrdID,
		Account:   "A1",
		Symbol:    "AAPL",
		Side:      orderv1.SideBuy,
		OrdType:   orderv1.OrdTypeLimit,
		OrderQty:  decimal.NewFromInt(100),
		Price:     decimal.NewNullDecimal(decimal.NewFromInt(150)),
	}
}

func fill(orderID, execID string, qty, px int64) *orderv1.ExecutionCmd {
	return &orderv1.ExecutionCmd{
		OrderID: orderID,
		ExecID:  execID,
		LastQty: decimal.NewFromInt(qty),
		LastPx:  decimal.NewFromInt(px),
	}
}
