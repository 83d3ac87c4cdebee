package history

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/denarius-labs/riskd/internal/testutil"
)

func TestPostgresProviderSnapshot(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	p := NewPostgresProvider(db)

	now := time.Now()
	seed := []struct {
		amount float64
		chann  string
		causal string
		age    time.Duration
	}{
		{100, "WEB", "PAYMENT", 24 * time.Hour},
		{200, "WEB", "PAYMENT", 48 * time.Hour},
		{300, "MOBILE", "TRANSFER", 72 * time.Hour},
		{400, "WEB", "PAYMENT", 40 * 24 * time.Hour}, // outside 30d window
	}
	for _, s := range seed {
		if err := p.Record(ctx, "ACC-PG-1", s.amount, s.chann, s.causal, now.Add(-s.age)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	snap, err := p.Snapshot(ctx, "ACC-PG-1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if math.Abs(snap.AvgTransactionAmount-250) > 0.01 {
		t.Errorf("avg = %v, want 250", snap.AvgTransactionAmount)
	}
	if snap.TransactionCount30d != 3 {
		t.Errorf("count30d = %d, want 3", snap.TransactionCount30d)
	}
	if snap.MaxTransactionAmount != 400 || snap.MinTransactionAmount != 100 {
		t.Errorf("max/min = %v/%v, want 400/100", snap.MaxTransactionAmount, snap.MinTransactionAmount)
	}
	if len(snap.CommonChannels) == 0 || snap.CommonChannels[0] != "WEB" {
		t.Errorf("common channels = %v, want WEB first", snap.CommonChannels)
	}
	if len(snap.CommonCausals) == 0 || snap.CommonCausals[0] != "PAYMENT" {
		t.Errorf("common causals = %v, want PAYMENT first", snap.CommonCausals)
	}
	if snap.AccountAgeDays < 39 || snap.AccountAgeDays > 41 {
		t.Errorf("account age = %d, want ~40", snap.AccountAgeDays)
	}
	if snap.LastTransactionDate == "" {
		t.Error("last transaction date should be set")
	}
}

func TestPostgresProviderEmptyAccount(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	p := NewPostgresProvider(db)
	snap, err := p.Snapshot(context.Background(), "ACC-EMPTY")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if snap.AvgTransactionAmount != 0 || snap.StdTransactionAmount != 0 {
		t.Errorf("empty account should have zero avg/std, got %v/%v",
			snap.AvgTransactionAmount, snap.StdTransactionAmount)
	}
	if snap.TransactionCount30d != 0 {
		t.Errorf("count30d = %d, want 0", snap.TransactionCount30d)
	}
	if snap.LastTransactionDate == "" {
		t.Error("last transaction date should fall back to now")
	}
}
