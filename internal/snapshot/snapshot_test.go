package snapshot

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldbook/loanbook-cli/internal/normalize"
)

func ptrFloat64(v float64) *float64  { return &v }
func ptrTime(t time.Time) *time.Time { return &t }

// stubSource counts loads and optionally delays them.
type stubSource struct {
	loads int64
	delay time.Duration
	fail  bool
}

func (s *stubSource) Loans(ctx context.Context) ([]normalize.RawLoan, error) {
	atomic.AddInt64(&s.loads, 1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail {
		return nil, eris.New("stub: load failure")
	}
	disbursed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []normalize.RawLoan{
		{
			LoanID:               "GL-1",
			CustomerID:           "C-1",
			Segment:              "Private",
			Principal:            ptrFloat64(100_000),
			NetWeightGrams:       ptrFloat64(50),
			RatePerGram:          ptrFloat64(6000),
			PurityPct:            ptrFloat64(91.6),
			DisbursedOn:          ptrTime(disbursed),
			ContractedInterest:   ptrFloat64(5_000),
			DepositedInterest:    ptrFloat64(0),
			OutstandingPrincipal: ptrFloat64(100_000),
		},
		{
			// Flagged: no principal.
			LoanID:      "GL-2",
			Segment:     "vyapari",
			DisbursedOn: ptrTime(disbursed),
		},
	}, nil
}

func (s *stubSource) Expenses(ctx context.Context) ([]normalize.RawExpense, error) {
	d := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return []normalize.RawExpense{
		{ID: "E-1", Date: ptrTime(d), Ledger: "Rent", Amount: ptrFloat64(12_000), PaymentMode: "Bank"},
	}, nil
}

func (s *stubSource) Close() error { return nil }

func TestCacheGetNormalizes(t *testing.T) {
	src := &stubSource{}
	c := NewCache(src, time.Minute)

	snap, err := c.Get(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Loans, 2)
	require.Len(t, snap.Expenses, 1)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", snap.ID.String())
	assert.Equal(t, 2, snap.Quality.Records)
	assert.Equal(t, 1, snap.Quality.Flagged)
}

func TestCacheServesWithinTTL(t *testing.T) {
	src := &stubSource{}
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(src, 300*time.Second).WithClock(func() time.Time { return now })

	first, err := c.Get(context.Background())
	require.NoError(t, err)

	now = now.Add(299 * time.Second)
	second, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt64(&src.loads))
}

func TestCacheReloadsPastTTL(t *testing.T) {
	src := &stubSource{}
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(src, 300*time.Second).WithClock(func() time.Time { return now })

	first, err := c.Get(context.Background())
	require.NoError(t, err)

	now = now.Add(301 * time.Second)
	second, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.ID, second.ID)
	assert.EqualValues(t, 2, atomic.LoadInt64(&src.loads))
}

func TestCacheInvalidate(t *testing.T) {
	src := &stubSource{}
	c := NewCache(src, time.Hour)

	first, err := c.Get(context.Background())
	require.NoError(t, err)

	c.Invalidate()

	second, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.EqualValues(t, 2, atomic.LoadInt64(&src.loads))
}

func TestCacheSharesConcurrentLoads(t *testing.T) {
	src := &stubSource{delay: 50 * time.Millisecond}
	c := NewCache(src, time.Hour)

	const callers = 16
	snaps := make([]*Snapshot, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := c.Get(context.Background())
			assert.NoError(t, err)
			snaps[i] = snap
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt64(&src.loads))
	for i := 1; i < callers; i++ {
		assert.Same(t, snaps[0], snaps[i])
	}
}

func TestCacheLoadFailure(t *testing.T) {
	src := &stubSource{fail: true}
	c := NewCache(src, time.Hour)

	_, err := c.Get(context.Background())
	require.Error(t, err)

	// A failed load caches nothing; recovery is possible.
	src.fail = false
	snap, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

func TestCacheDefaultTTL(t *testing.T) {
	c := NewCache(&stubSource{}, 0)
	assert.Equal(t, DefaultTTL, c.ttl)
}
