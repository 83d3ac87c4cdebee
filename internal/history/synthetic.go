package history

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// SyntheticProvider fabricates snapshots from uniform random draws. It stands
// in for the real warehouse in demo mode and in tests.
type SyntheticProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSynthetic creates a synthetic provider. seed 0 means time-seeded.
func NewSynthetic(seed int64) *SyntheticProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SyntheticProvider{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// Snapshot returns a freshly fabricated snapshot. The account number only
// identifies the request; draws are independent per call.
func (p *SyntheticProvider) Snapshot(ctx context.Context, accountNumber string) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	last := p.now().AddDate(0, 0, -(1 + p.rng.Intn(30)))

	return &Snapshot{
		AvgTransactionAmount: p.uniform(100, 1000),
		StdTransactionAmount: p.uniform(50, 200),
		TransactionCount30d:  10 + p.rng.Intn(90),
		AvgDailyTransactions: p.uniform(1, 10),
		MaxTransactionAmount: p.uniform(1000, 5000),
		MinTransactionAmount: p.uniform(10, 100),
		AccountAgeDays:       30 + p.rng.Intn(970),
		LastTransactionDate:  FormatTimestamp(last),
		CommonChannels:       []string{"WEB", "MOBILE", "ATM"},
		CommonCausals:        []string{"TRANSFER", "PAYMENT", "WITHDRAWAL"},
	}, nil
}

func (p *SyntheticProvider) uniform(lo, hi float64) float64 {
	return lo + p.rng.Float64()*(hi-lo)
}
