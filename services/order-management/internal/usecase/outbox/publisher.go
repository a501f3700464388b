// Package outbox delivers committed outbox records to the bus.
package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	orderpublisherv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order-publisher/v1"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/infrastructure/postgresql/outbox"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/metrics"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// Config tunes the publisher.
type Config struct {
	Topic string
	// PublishEnabled false deletes records without sending them.
	PublishEnabled bool
	ScanInterval   time.Duration
	BatchSize      int
	// MaxAttempts is the number of failed sends after which a record is reported as a dead letter.
	MaxAttempts int
	Workers     int
	// NotifyBuffer is the capacity of the commit notification channel.
	NotifyBuffer int
}

// DefaultConfig returns the values used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Topic:          "order-events",
		PublishEnabled: true,
		ScanInterval:   5 * time.Second,
		BatchSize:      100,
		MaxAttempts:    10,
		Workers:        4,
		NotifyBuffer:   1024,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ScanInterval <= 0 {
		c.ScanInterval = d.ScanInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.NotifyBuffer <= 0 {
		c.NotifyBuffer = d.NotifyBuffer
	}
	return c
}

// Publisher sends outbox records announced by committed commands, and
// rescans the table periodically for anything a notification missed.
// A record is deleted only after the bus acknowledged it.
type Publisher struct {
	cfg     Config
	repo    outbox.OutboxRepository
	bus     orderpublisherv1.Bus
	logger  logger.Interface
	metrics *metrics.Metrics

	notifications chan int64
	workers       *errgroup.Group

	mu       sync.Mutex
	inFlight map[string]struct{}
	attempts map[int64]int
}

// NewPublisher creates a publisher. m may be nil.
func NewPublisher(
	cfg Config,
	repo outbox.OutboxRepository,
	bus orderpublisherv1.Bus,
	log logger.Interface,
	m *metrics.Metrics,
) *Publisher {
	cfg = cfg.withDefaults()

	workers := new(errgroup.Group)
	workers.SetLimit(cfg.Workers)

	return &Publisher{
		cfg:           cfg,
		repo:          repo,
		bus:           bus,
		logger:        log,
		metrics:       m,
		notifications: make(chan int64, cfg.NotifyBuffer),
		workers:       workers,
		inFlight:      make(map[string]struct{}),
		attempts:      make(map[int64]int),
	}
}

// Notify queues a committed record id. It never blocks: when the buffer is
// full the id is dropped and left to the next scan.
func (p *Publisher) Notify(id int64) {
	select {
	case p.notifications <- id:
	default:
		p.metrics.NotificationDropped()
		p.logger.Debug("Outbox notification dropped", logger.NewField("outbox_id", id))
	}
}

// Run scans once, then serves notifications and the scheduled scan until ctx is done.
// It returns after every started send finished.
func (p *Publisher) Run(ctx context.Context) error {
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := scheduler.AddFunc(fmt.Sprintf("@every %s", p.cfg.ScanInterval), func() {
		if _, err := p.Scan(ctx); err != nil {
			p.logger.ErrorContext(ctx, err, logger.NewField("stage", "outbox scan"))
		}
	})
	if err != nil {
		return errors.TracerFromError(err)
	}

	p.logger.Info("Outbox publisher started",
		logger.NewField("topic", p.cfg.Topic),
		logger.NewField("publish_enabled", p.cfg.PublishEnabled),
		logger.NewField("scan_interval", p.cfg.ScanInterval.String()),
		logger.NewField("workers", p.cfg.Workers),
	)

	if _, err := p.Scan(ctx); err != nil {
		p.logger.ErrorContext(ctx, err, logger.NewField("stage", "outbox scan"))
	}
	scheduler.Start()

	for {
		select {
		case <-ctx.Done():
			<-scheduler.Stop().Done()
			p.Wait()
			p.logger.Info("Outbox publisher stopped")
			return nil
		case id := <-p.notifications:
			p.dispatchByID(ctx, id)
		}
	}
}

// Scan reads up to BatchSize pending records and hands each order not already
// being sent to a worker. A worker sends the order's records in id order and
// stops at the first failure. It returns how many records were dispatched.
func (p *Publisher) Scan(ctx context.Context) (int, error) {
	if n, err := p.repo.CountPending(ctx); err == nil {
		p.metrics.SetOutboxPending(n)
	}

	records, err := p.repo.FindAllPending(ctx, p.cfg.BatchSize)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	var keys []string
	byKey := make(map[string][]*orderv1.OutboxRecord)
	for _, r := range records {
		key := claimKey(r)
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], r)
	}

	dispatched := 0
	for _, key := range keys {
		// an order held elsewhere keeps all its records for that holder or the next scan
		if !p.claim(key) {
			continue
		}
		batch := byKey[key]
		dispatched += len(batch)
		p.workers.Go(func() error {
			defer p.release(key)
			if batch[0].Order == nil {
				p.publish(ctx, batch[0])
				return nil
			}
			p.drainOrder(ctx, batch[0].Order.OrderID)
			return nil
		})
	}
	return dispatched, nil
}

// Wait blocks until every dispatched send finished.
func (p *Publisher) Wait() {
	_ = p.workers.Wait()
}

// Attempts returns the failed send count of a record still pending.
func (p *Publisher) Attempts(id int64) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts[id]
}

// dispatchByID sends a notified record together with any older pending record
// of the same order, oldest first.
func (p *Publisher) dispatchByID(ctx context.Context, id int64) {
	p.workers.Go(func() error {
		r, err := p.repo.FindByID(ctx, id)
		if err != nil {
			p.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.NewField("outbox_id", id))
			return nil
		}
		if r == nil {
			// already delivered
			return nil
		}

		key := claimKey(r)
		if !p.claim(key) {
			return nil
		}
		defer p.release(key)

		if r.Order == nil {
			p.publish(ctx, r)
			return nil
		}
		p.drainOrder(ctx, r.Order.OrderID)
		return nil
	})
}

// drainOrder reloads the pending records of a claimed order and sends them in
// id order. The first failure leaves the rest for a later attempt.
func (p *Publisher) drainOrder(ctx context.Context, orderID string) {
	records, err := p.repo.FindPendingByOrderID(ctx, orderID, p.cfg.BatchSize)
	if err != nil {
		p.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.NewField("order_id", orderID))
		return
	}
	for _, r := range records {
		if !p.publish(ctx, r) {
			return
		}
	}
}

// publish sends one record of a claimed order. It reports whether the record left the outbox.
func (p *Publisher) publish(ctx context.Context, r *orderv1.OutboxRecord) bool {
	if !p.cfg.PublishEnabled {
		if err := p.repo.DeleteByID(ctx, r.ID); err != nil {
			p.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.NewField("outbox_id", r.ID))
			return false
		}
		p.metrics.OutboxDrained()
		return true
	}

	if r.Order == nil {
		p.failed(ctx, r, fmt.Errorf("outbox record %d has no order snapshot", r.ID))
		return false
	}

	msg := orderpublisherv1.CreateFromRecord(r)
	payload, err := msg.ToBytes()
	if err != nil {
		p.failed(ctx, r, err)
		return false
	}

	if err := p.bus.Send(ctx, p.cfg.Topic, msg.Key(), payload); err != nil {
		p.failed(ctx, r, err)
		return false
	}

	// a failed delete means the record is sent again; consumers drop it by eventId
	if err := p.repo.DeleteByID(ctx, r.ID); err != nil {
		p.logger.ErrorContext(ctx, errors.TracerFromError(err),
			logger.NewField("outbox_id", r.ID),
			logger.NewField("order_id", msg.OrderID),
		)
		return false
	}

	p.forget(r.ID)
	p.metrics.OutboxPublished()
	p.logger.DebugContext(ctx, "Outbox record published",
		logger.NewField("outbox_id", r.ID),
		logger.NewField("order_id", msg.OrderID),
		logger.NewField("state", msg.State),
	)
	return true
}

func (p *Publisher) failed(ctx context.Context, r *orderv1.OutboxRecord, err error) {
	p.mu.Lock()
	p.attempts[r.ID]++
	attempts := p.attempts[r.ID]
	p.mu.Unlock()

	p.metrics.OutboxPublishFailed()

	fields := []logger.Field{
		logger.NewField("outbox_id", r.ID),
		logger.NewField("order_id", orderKey(r)),
		logger.NewField("attempts", attempts),
	}
	if attempts > p.cfg.MaxAttempts {
		p.metrics.OutboxDeadLetter()
		p.logger.ErrorContext(ctx, errors.NewErrorDetails(
			fmt.Sprintf("outbox record %d undeliverable after %d attempts: %v", r.ID, attempts, err),
			string(errors.OutboxPublishError),
			"outbox_id",
		), fields...)
		return
	}
	p.logger.WarnContext(ctx, "Outbox publish failed", append(fields, logger.NewField("error", err.Error()))...)
}

// claim marks key as in flight. It returns false when another worker already holds it.
func (p *Publisher) claim(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.inFlight[key]; ok {
		return false
	}
	p.inFlight[key] = struct{}{}
	return true
}

func (p *Publisher) release(key string) {
	p.mu.Lock()
	delete(p.inFlight, key)
	p.mu.Unlock()
}

func (p *Publisher) forget(id int64) {
	p.mu.Lock()
	delete(p.attempts, id)
	p.mu.Unlock()
}

// claimKey is the order id, or the record id for a record without a snapshot.
func claimKey(r *orderv1.OutboxRecord) string {
	if r.Order == nil {
		return fmt.Sprintf("record:%d", r.ID)
	}
	return r.Order.OrderID
}

func orderKey(r *orderv1.OutboxRecord) string {
	if r.Order == nil {
		return ""
	}
	return r.Order.OrderID
}
