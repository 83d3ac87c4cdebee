// Package history supplies per-account historical transaction statistics.
//
// The scoring and analysis layers depend only on the Snapshot shape, not on
// where it comes from: the synthetic provider fabricates plausible numbers
// for demo mode, while the Postgres provider aggregates a warehouse-style
// account_transactions table. Snapshots are built fresh per request and
// never cached.
package history

import (
	"context"
	"time"
)

// Snapshot is a fully-populated bag of historical statistics for one account.
type Snapshot struct {
	AvgTransactionAmount float64  `json:"avg_transaction_amount"`
	StdTransactionAmount float64  `json:"std_transaction_amount"`
	TransactionCount30d  int      `json:"transaction_count_30d"`
	AvgDailyTransactions float64  `json:"avg_daily_transactions"`
	MaxTransactionAmount float64  `json:"max_transaction_amount"`
	MinTransactionAmount float64  `json:"min_transaction_amount"`
	AccountAgeDays       int      `json:"account_age_days"`
	LastTransactionDate  string   `json:"last_transaction_date"` // ISO-8601
	CommonChannels       []string `json:"common_channels"`
	CommonCausals        []string `json:"common_causals"`
}

// Provider fetches the historical snapshot for an account.
// Implementations must return a fully-populated snapshot with non-negative
// avg and std amounts.
type Provider interface {
	Snapshot(ctx context.Context, accountNumber string) (*Snapshot, error)
}

// Recorder is implemented by providers whose backing store can absorb new
// transactions. The server feeds scored transactions through it best-effort.
type Recorder interface {
	Record(ctx context.Context, accountNumber string, amount float64, channel, causalCode string, occurredAt time.Time) error
}

// FormatTimestamp renders a time the way snapshots carry it: UTC with a
// trailing Z, never a numeric offset.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
