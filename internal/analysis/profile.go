// Package analysis derives account-level classifications from a historical
// snapshot: a volume/age risk profile, descriptive behavioral patterns, and
// discrete anomaly indicators. Everything here is a pure function of the
// snapshot (the behavioral analyzer additionally draws from an injected
// random source; its output is informational and carries no decision weight).
package analysis

import (
	"math"

	"github.com/denarius-labs/riskd/internal/history"
)

// Profile classification thresholds.
const (
	highVolumeAvgAmount = 1000.0
	highVolumeTxCount   = 50
	lowVolumeAvgAmount  = 200.0
	lowVolumeTxCount    = 10

	newAccountAgeDays         = 90
	establishedAccountAgeDays = 365
)

// Profile is a coarse account risk classification.
type Profile struct {
	ProfileType    string  `json:"profile_type"`
	RiskFactor     float64 `json:"risk_factor"`
	StabilityScore float64 `json:"stability_score"`
}

// AccountProfile classifies an account by volume, then adjusts for age.
// Volume rules are evaluated in priority order; the age adjustment appends a
// suffix and shifts the risk factor.
func AccountProfile(snap *history.Snapshot) Profile {
	var (
		profile    string
		riskFactor float64
	)

	switch {
	case snap.AvgTransactionAmount > highVolumeAvgAmount && snap.TransactionCount30d > highVolumeTxCount:
		profile, riskFactor = "HIGH_VOLUME", 0.8
	case snap.AvgTransactionAmount < lowVolumeAvgAmount && snap.TransactionCount30d < lowVolumeTxCount:
		profile, riskFactor = "LOW_VOLUME", 0.3
	default:
		profile, riskFactor = "MEDIUM_VOLUME", 0.5
	}

	switch {
	case snap.AccountAgeDays < newAccountAgeDays:
		riskFactor += 0.2
		profile += "_NEW"
	case snap.AccountAgeDays > establishedAccountAgeDays:
		riskFactor -= 0.1
		profile += "_ESTABLISHED"
	}

	return Profile{
		ProfileType:    profile,
		RiskFactor:     math.Round(riskFactor*100) / 100,
		StabilityScore: math.Min(float64(snap.AccountAgeDays)/365*100, 100),
	}
}
