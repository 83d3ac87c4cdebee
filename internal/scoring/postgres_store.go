package scoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresStore persists assessments in PostgreSQL (see migrations/).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed assessment store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Record(ctx context.Context, a *Assessment) error {
	metricsJSON, err := json.Marshal(a.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	recsJSON, err := json.Marshal(a.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO risk_assessments
			(id, account_number, tenant_id, risk_score, risk_level, metrics, recommendations, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		a.ID,
		a.AccountNumber,
		a.TenantID,
		a.Score,
		string(a.Level),
		metricsJSON,
		recsJSON,
		a.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("record risk assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByAccount(ctx context.Context, accountNumber string, before *time.Time, limit int) ([]*Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_number, tenant_id, risk_score, risk_level, metrics, recommendations, evaluated_at
		FROM risk_assessments
		WHERE account_number = $1
		  AND ($2::timestamptz IS NULL OR evaluated_at < $2)
		ORDER BY evaluated_at DESC
		LIMIT $3
	`, accountNumber, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list risk assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Assessment
	for rows.Next() {
		var a Assessment
		var metricsJSON, recsJSON []byte

		if err := rows.Scan(&a.ID, &a.AccountNumber, &a.TenantID, &a.Score, &a.Level,
			&metricsJSON, &recsJSON, &a.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("scan risk assessment: %w", err)
		}
		_ = json.Unmarshal(metricsJSON, &a.Metrics)
		_ = json.Unmarshal(recsJSON, &a.Recommendations)
		result = append(result, &a)
	}
	return result, rows.Err()
}
