package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/denarius-labs/riskd/internal/history"
	"github.com/denarius-labs/riskd/internal/idgen"
)

// Component weights. They sum to 1.0 so a transaction maxing every component
// would land at 100 before clamping.
const (
	weightAmountDeviation = 0.30
	weightAmountRatio     = 0.25
	weightFrequency       = 0.20
	weightRecency         = 0.15
	weightMaturity        = 0.10
)

// Caps applied to individual metrics before weighting.
const (
	maxFrequencyScore  = 10.0
	maxAccountMaturity = 5.0
	recencyWindowDays  = 30.0
)

// Engine computes risk assessments. Stateless apart from the optional audit
// store; safe for concurrent use.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine creates a scoring engine backed by the given audit store.
// store may be nil to disable the audit trail.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Score evaluates a transaction against its account snapshot.
// Returns an error only when the snapshot's last transaction date cannot be
// interpreted; every numeric edge case has a defined fallback instead.
func (e *Engine) Score(ctx context.Context, tx *Transaction, snap *history.Snapshot) (*Assessment, error) {
	metrics, err := e.deriveMetrics(tx, snap)
	if err != nil {
		return nil, err
	}

	components := []float64{
		metrics.AmountDeviation * weightAmountDeviation,
		ratioComponent(metrics.AmountRatio),
		(maxFrequencyScore - metrics.FrequencyScore) * weightFrequency,
		math.Min(float64(metrics.TimeSinceLast)/recencyWindowDays, 1) * weightRecency,
		(maxAccountMaturity - metrics.AccountMaturity) * weightMaturity,
	}

	var sum float64
	for _, c := range components {
		sum += c
	}

	score := clamp(sum*100, 0, 100)
	score = round2(score)

	level, recommendations := Tier(score)

	a := &Assessment{
		ID:              "risk_" + idgen.Hex(12),
		AccountNumber:   tx.AccountNumber,
		TenantID:        tx.TenantID,
		Score:           score,
		Level:           level,
		Metrics:         metrics,
		Recommendations: recommendations,
		EvaluatedAt:     e.now(),
	}

	// Persist asynchronously (best-effort audit trail)
	if e.store != nil {
		go func() {
			_ = e.store.Record(context.Background(), a)
		}()
	}

	return a, nil
}

// Assessments returns the most recent audit-trail entries for an account,
// newest first. A non-nil before bound pages further back in time.
// Returns nothing when no store is configured.
func (e *Engine) Assessments(ctx context.Context, accountNumber string, before *time.Time, limit int) ([]*Assessment, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.ListByAccount(ctx, accountNumber, before, limit)
}

// deriveMetrics computes the five derived metrics with their edge-case
// fallbacks: deviation 0 when std is 0, ratio 1 when avg is 0.
func (e *Engine) deriveMetrics(tx *Transaction, snap *history.Snapshot) (Metrics, error) {
	m := Metrics{AmountRatio: 1}

	if snap.StdTransactionAmount > 0 {
		m.AmountDeviation = math.Abs(tx.Amount-snap.AvgTransactionAmount) / snap.StdTransactionAmount
	}
	if snap.AvgTransactionAmount > 0 {
		m.AmountRatio = tx.Amount / snap.AvgTransactionAmount
	}

	m.FrequencyScore = math.Min(float64(snap.TransactionCount30d)/30, maxFrequencyScore)

	days, err := e.daysSince(snap.LastTransactionDate)
	if err != nil {
		return Metrics{}, fmt.Errorf("last transaction date: %w", err)
	}
	m.TimeSinceLast = days

	m.AccountMaturity = math.Min(float64(snap.AccountAgeDays)/365, maxAccountMaturity)

	return m, nil
}

// daysSince computes the whole-day difference from the snapshot timestamp to
// now. Any trailing UTC designator is stripped and the remainder is compared
// as a naive local time, mirroring the upstream warehouse export. Offsets
// other than UTC are rejected.
func (e *Engine) daysSince(isoDate string) (int, error) {
	s := strings.TrimSuffix(isoDate, "Z")
	s = strings.TrimSuffix(s, "+00:00")

	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local)
	if err != nil {
		return 0, err
	}

	return int(math.Floor(e.now().Sub(t).Hours() / 24)), nil
}

// ratioComponent only penalizes transactions above the account average.
func ratioComponent(ratio float64) float64 {
	if ratio > 1 {
		return (ratio - 1) * weightAmountRatio
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
