// Package snapshot loads the loan book from a source, normalizes it, and
// caches the result so repeated analytics calls within the TTL share one
// load.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/goldbook/loanbook-cli/internal/model"
	"github.com/goldbook/loanbook-cli/internal/normalize"
	"github.com/goldbook/loanbook-cli/internal/source"
)

// Snapshot is one normalized view of the book at a point in time.
type Snapshot struct {
	ID             uuid.UUID
	Loans          []model.Loan
	Expenses       []model.Expense
	Quality        *normalize.Report
	ExpenseQuality *normalize.Report
	LoadedAt       time.Time
}

// DefaultTTL is used when the cache is built with a non-positive TTL.
const DefaultTTL = 300 * time.Second

// Cache serves snapshots with a TTL. Concurrent callers hitting an expired
// cache share a single load via singleflight.
type Cache struct {
	src source.Source
	ttl time.Duration
	now func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	current *Snapshot
}

// NewCache builds a cache over the given source.
func NewCache(src source.Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{src: src, ttl: ttl, now: time.Now}
}

// WithClock overrides the cache's clock (used by tests).
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached snapshot, loading a fresh one when the cache is
// empty or past its TTL.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	cur := c.current
	c.mu.RUnlock()
	if cur != nil && c.now().Sub(cur.LoadedAt) < c.ttl {
		return cur, nil
	}

	v, err, _ := c.group.Do("snapshot", func() (any, error) {
		// Re-check: another caller may have refreshed while we waited.
		c.mu.RLock()
		cur := c.current
		c.mu.RUnlock()
		if cur != nil && c.now().Sub(cur.LoadedAt) < c.ttl {
			return cur, nil
		}

		snap, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.current = snap
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the cached snapshot so the next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context) (*Snapshot, error) {
	rawLoans, err := c.src.Loans(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: load loans")
	}
	rawExpenses, err := c.src.Expenses(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: load expenses")
	}

	loans, report := normalize.Loans(rawLoans)
	expenses, expenseReport := normalize.Expenses(rawExpenses)

	snap := &Snapshot{
		ID:             uuid.New(),
		Loans:          loans,
		Expenses:       expenses,
		Quality:        report,
		ExpenseQuality: expenseReport,
		LoadedAt:       c.now(),
	}
	zap.L().Info("snapshot loaded",
		zap.String("snapshot_id", snap.ID.String()),
		zap.Int("loans", len(loans)),
		zap.Int("expenses", len(expenses)),
		zap.Int("flagged_records", report.Flagged),
	)
	return snap, nil
}
