package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresProvider builds snapshots by aggregating the account_transactions
// table (see migrations/). Accounts with no recorded transactions yield a
// zero-valued snapshot; the scoring edge-case rules absorb zero avg/std.
type PostgresProvider struct {
	db *sql.DB
}

// NewPostgresProvider creates a Postgres-backed historical data provider.
func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

func (p *PostgresProvider) Snapshot(ctx context.Context, accountNumber string) (*Snapshot, error) {
	snap := &Snapshot{}

	var (
		lastTx     sql.NullTime
		openedAt   sql.NullTime
		activeDays sql.NullFloat64
	)

	err := p.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(AVG(amount), 0),
			COALESCE(STDDEV_POP(amount), 0),
			COUNT(*) FILTER (WHERE occurred_at > NOW() - INTERVAL '30 days'),
			COALESCE(MAX(amount), 0),
			COALESCE(MIN(amount), 0),
			MAX(occurred_at),
			MIN(occurred_at),
			COUNT(DISTINCT occurred_at::date)
		FROM account_transactions
		WHERE account_number = $1
	`, accountNumber).Scan(
		&snap.AvgTransactionAmount,
		&snap.StdTransactionAmount,
		&snap.TransactionCount30d,
		&snap.MaxTransactionAmount,
		&snap.MinTransactionAmount,
		&lastTx,
		&openedAt,
		&activeDays,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate account history: %w", err)
	}

	if lastTx.Valid {
		snap.LastTransactionDate = FormatTimestamp(lastTx.Time)
	} else {
		snap.LastTransactionDate = FormatTimestamp(time.Now())
	}
	if openedAt.Valid {
		snap.AccountAgeDays = int(time.Since(openedAt.Time).Hours() / 24)
	}
	if activeDays.Valid && activeDays.Float64 > 0 {
		total, err := p.totalCount(ctx, accountNumber)
		if err != nil {
			return nil, err
		}
		snap.AvgDailyTransactions = float64(total) / activeDays.Float64
	}

	snap.CommonChannels, err = p.topValues(ctx, accountNumber, "channel")
	if err != nil {
		return nil, err
	}
	snap.CommonCausals, err = p.topValues(ctx, accountNumber, "causal_code")
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func (p *PostgresProvider) totalCount(ctx context.Context, accountNumber string) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM account_transactions WHERE account_number = $1
	`, accountNumber).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count account transactions: %w", err)
	}
	return n, nil
}

// topValues returns the three most frequent values of a column for the
// account, most frequent first. column is one of two fixed identifiers, never
// user input.
func (p *PostgresProvider) topValues(ctx context.Context, accountNumber, column string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM account_transactions
		WHERE account_number = $1
		GROUP BY %s
		ORDER BY COUNT(*) DESC, %s ASC
		LIMIT 3
	`, column, column, column)

	rows, err := p.db.QueryContext(ctx, query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("rank %s values: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s value: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Record inserts a transaction into the history table. Used by the server to
// feed scored transactions back into the warehouse, and by tests to seed data.
func (p *PostgresProvider) Record(ctx context.Context, accountNumber string, amount float64, channel, causalCode string, occurredAt time.Time) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO account_transactions (account_number, amount, channel, causal_code, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`, accountNumber, amount, channel, causalCode, occurredAt)
	if err != nil {
		return fmt.Errorf("record account transaction: %w", err)
	}
	return nil
}
