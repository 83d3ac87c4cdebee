package analysis

import (
	"github.com/denarius-labs/riskd/internal/history"
)

// Anomaly indicator tags.
const (
	TagAtypicalHighTransaction = "ATYPICAL_HIGH_TRANSACTION"
	TagHighFrequency           = "HIGH_FREQUENCY"
	TagNewAccount              = "NEW_ACCOUNT"
	TagNormalBehavior          = "NORMAL_BEHAVIOR"
)

// Anomaly rule thresholds.
const (
	atypicalMaxToAvgRatio = 5.0
	highFrequencyTxCount  = 80
	anomalyNewAccountDays = 30
)

// AnomalyIndicators applies three independent rules and accumulates their
// tags; all rules are evaluated, none short-circuits. When nothing fires the
// result is exactly [NORMAL_BEHAVIOR].
func AnomalyIndicators(snap *history.Snapshot) []string {
	var tags []string

	if snap.MaxTransactionAmount > snap.AvgTransactionAmount*atypicalMaxToAvgRatio {
		tags = append(tags, TagAtypicalHighTransaction)
	}
	if snap.TransactionCount30d > highFrequencyTxCount {
		tags = append(tags, TagHighFrequency)
	}
	if snap.AccountAgeDays < anomalyNewAccountDays {
		tags = append(tags, TagNewAccount)
	}

	if len(tags) == 0 {
		return []string{TagNormalBehavior}
	}
	return tags
}
