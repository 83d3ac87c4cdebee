// Package scoring implements deterministic transaction risk scoring.
//
// Every transaction is evaluated against 5 weighted components derived from
// the account's historical snapshot: amount deviation, amount ratio,
// frequency, recency, and account maturity. Scores range 0–100 and map to a
// LOW/MEDIUM/HIGH level with fixed recommendations. The formula is a plain
// arithmetic pipeline; there is no model behind it.
package scoring

import (
	"context"
	"time"
)

// Level is the tier a risk score falls into.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Tier boundaries (inclusive lower bounds).
const (
	MediumThreshold = 30.0
	HighThreshold   = 70.0
)

// Transaction carries the validated fields of a scoring request.
// Immutable once built by the handler.
type Transaction struct {
	TenantID      string  `json:"tenant_id"`
	ClientID      string  `json:"client_id"`
	AccountNumber string  `json:"account_number"`
	Amount        float64 `json:"transaction_amount"`
	CausalCode    string  `json:"causal_code"`
	Currency      string  `json:"currency"`
	Channel       string  `json:"channel"`
	Timestamp     string  `json:"timestamp"` // ISO-8601
}

// Metrics are the derived quantities the composite score is built from.
type Metrics struct {
	AmountDeviation float64 `json:"amount_deviation"`
	AmountRatio     float64 `json:"amount_ratio"`
	FrequencyScore  float64 `json:"frequency_score"`
	TimeSinceLast   int     `json:"time_since_last"` // days
	AccountMaturity float64 `json:"account_maturity"`
}

// Assessment is the result of scoring a single transaction.
type Assessment struct {
	ID              string    `json:"id"`
	AccountNumber   string    `json:"account_number"`
	TenantID        string    `json:"tenant_id"`
	Score           float64   `json:"risk_score"`
	Level           Level     `json:"risk_level"`
	Metrics         Metrics   `json:"metrics"`
	Recommendations []string  `json:"recommendations"`
	EvaluatedAt     time.Time `json:"evaluated_at"`
}

// Store persists assessments for the audit trail.
// ListByAccount returns entries newest first; a non-nil before bound restricts
// results to assessments evaluated strictly earlier (cursor pagination).
type Store interface {
	Record(ctx context.Context, a *Assessment) error
	ListByAccount(ctx context.Context, accountNumber string, before *time.Time, limit int) ([]*Assessment, error)
}

// Tier maps a score in [0,100] to its level and fixed recommendations.
// Boundaries 30 and 70 belong to the higher tier.
func Tier(score float64) (Level, []string) {
	switch {
	case score < MediumThreshold:
		return LevelLow, []string{"normal transaction", "continue standard monitoring"}
	case score < HighThreshold:
		return LevelMedium, []string{"review patterns", "additional monitoring recommended"}
	default:
		return LevelHigh, []string{"manual review required", "possible fraudulent transaction"}
	}
}
