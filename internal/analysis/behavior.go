package analysis

import (
	"math/rand"
	"sync"
	"time"

	"github.com/denarius-labs/riskd/internal/history"
)

// Time-of-day pattern tags.
var timePatterns = []string{"DIURNAL", "NOCTURNAL", "MIXED"}

// Patterns are descriptive behavioral indicators. They are informational
// only; nothing downstream makes decisions from them.
type Patterns struct {
	TransactionRegularity float64 `json:"transaction_regularity"`
	AmountConsistency     float64 `json:"amount_consistency"`
	ChannelPreference     string  `json:"channel_preference"`
	TimePattern           string  `json:"time_pattern"`
	SeasonalVariation     float64 `json:"seasonal_variation"`
}

// BehaviorAnalyzer fabricates behavioral pattern indicators from a snapshot.
// The randomness is seedable so tests can pin the output.
type BehaviorAnalyzer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBehaviorAnalyzer creates an analyzer. seed 0 means time-seeded.
func NewBehaviorAnalyzer(seed int64) *BehaviorAnalyzer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &BehaviorAnalyzer{rng: rand.New(rand.NewSource(seed))}
}

// Patterns draws the behavioral indicators for an account. The preferred
// channel always comes from the snapshot's declared common channels.
func (b *BehaviorAnalyzer) Patterns(snap *history.Snapshot) Patterns {
	b.mu.Lock()
	defer b.mu.Unlock()

	channel := ""
	if len(snap.CommonChannels) > 0 {
		channel = snap.CommonChannels[b.rng.Intn(len(snap.CommonChannels))]
	}

	return Patterns{
		TransactionRegularity: b.uniform(0.5, 1.0),
		AmountConsistency:     b.uniform(0.3, 0.9),
		ChannelPreference:     channel,
		TimePattern:           timePatterns[b.rng.Intn(len(timePatterns))],
		SeasonalVariation:     b.uniform(0.1, 0.5),
	}
}

func (b *BehaviorAnalyzer) uniform(lo, hi float64) float64 {
	return lo + b.rng.Float64()*(hi-lo)
}
