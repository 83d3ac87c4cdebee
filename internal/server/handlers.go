package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denarius-labs/riskd/internal/analysis"
	"github.com/denarius-labs/riskd/internal/config"
	"github.com/denarius-labs/riskd/internal/history"
	"github.com/denarius-labs/riskd/internal/idgen"
	"github.com/denarius-labs/riskd/internal/logging"
	"github.com/denarius-labs/riskd/internal/metrics"
	"github.com/denarius-labs/riskd/internal/pagination"
	"github.com/denarius-labs/riskd/internal/scoring"
	"github.com/denarius-labs/riskd/internal/traces"
	"github.com/denarius-labs/riskd/internal/validation"
)

// transactionRequest is the wire form of a scoring request. Required fields
// are pointers so absent and zero-valued inputs can be told apart.
type transactionRequest struct {
	TenantID      *string  `json:"tenant_id"`
	ClientID      *string  `json:"client_id"`
	AccountNumber *string  `json:"account_number"`
	Amount        *float64 `json:"transaction_amount"`
	CausalCode    *string  `json:"causal_code"`
	Currency      string   `json:"currency"`
	Channel       string   `json:"channel"`
	Timestamp     string   `json:"timestamp"`
}

func (r *transactionRequest) missingFields() []string {
	return validation.MissingTransactionFields(func(field string) bool {
		switch field {
		case "tenant_id":
			return r.TenantID != nil && *r.TenantID != ""
		case "client_id":
			return r.ClientID != nil && *r.ClientID != ""
		case "account_number":
			return r.AccountNumber != nil && *r.AccountNumber != ""
		case "transaction_amount":
			return r.Amount != nil
		case "causal_code":
			return r.CausalCode != nil && *r.CausalCode != ""
		}
		return false
	})
}

// processTransactionHandler handles POST /process-transaction
func (s *Server) processTransactionHandler(c *gin.Context) {
	ctx, span := traces.StartSpan(c.Request.Context(), "process_transaction")
	defer span.End()

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be valid JSON"})
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	if *req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "transaction_amount must be greater than zero",
		})
		return
	}

	now := time.Now()
	tx := &scoring.Transaction{
		TenantID:      validation.SanitizeString(*req.TenantID, validation.MaxStringLength),
		ClientID:      validation.SanitizeString(*req.ClientID, validation.MaxStringLength),
		AccountNumber: validation.SanitizeString(*req.AccountNumber, validation.MaxStringLength),
		Amount:        *req.Amount,
		CausalCode:    validation.SanitizeString(*req.CausalCode, validation.MaxStringLength),
		Currency:      req.Currency,
		Channel:       req.Channel,
		Timestamp:     req.Timestamp,
	}
	if tx.Currency == "" {
		tx.Currency = "USD"
	}
	if tx.Channel == "" {
		tx.Channel = "WEB"
	}
	if tx.Timestamp == "" {
		tx.Timestamp = history.FormatTimestamp(now)
	}

	span.SetAttributes(
		traces.AccountNumber(tx.AccountNumber),
		traces.TenantID(tx.TenantID),
	)

	snap, err := s.provider.Snapshot(ctx, tx.AccountNumber)
	if err != nil {
		metrics.SnapshotFetchesTotal.WithLabelValues(providerLabel(s.provider), "error").Inc()
		logging.L(ctx).Error("snapshot fetch failed",
			"account_number", tx.AccountNumber,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account history"})
		return
	}
	metrics.SnapshotFetchesTotal.WithLabelValues(providerLabel(s.provider), "ok").Inc()

	assessment, err := s.engine.Score(ctx, tx, snap)
	if err != nil {
		logging.L(ctx).Error("risk scoring failed",
			"account_number", tx.AccountNumber,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "risk evaluation failed"})
		return
	}

	// Feed the scored transaction back into the history store, best-effort.
	if rec, ok := s.provider.(history.Recorder); ok {
		go func() {
			if err := rec.Record(context.Background(), tx.AccountNumber, tx.Amount, tx.Channel, tx.CausalCode, now); err != nil {
				s.logger.Warn("failed to record transaction history",
					"account_number", tx.AccountNumber,
					"error", err,
				)
			}
		}()
	}

	metrics.TransactionsScoredTotal.WithLabelValues(string(assessment.Level)).Inc()
	span.SetAttributes(
		traces.RiskLevel(string(assessment.Level)),
		traces.RiskScore(assessment.Score),
	)

	logging.L(ctx).Info("transaction scored",
		"account_number", tx.AccountNumber,
		"tenant_id", tx.TenantID,
		"risk_score", assessment.Score,
		"risk_level", assessment.Level,
	)

	c.JSON(http.StatusOK, gin.H{
		"transaction_id":       idgen.Transaction(now),
		"account_number":       tx.AccountNumber,
		"risk_score":           assessment.Score,
		"risk_level":           assessment.Level,
		"calculated_metrics":   assessment.Metrics,
		"recommendations":      assessment.Recommendations,
		"processing_timestamp": history.FormatTimestamp(now),
	})
}

// accountMetricsHandler handles GET /account/:account_number/metrics
func (s *Server) accountMetricsHandler(c *gin.Context) {
	ctx, span := traces.StartSpan(c.Request.Context(), "account_metrics")
	defer span.End()

	accountNumber := strings.TrimSpace(c.Param("account_number"))
	span.SetAttributes(traces.AccountNumber(accountNumber))

	snap, err := s.provider.Snapshot(ctx, accountNumber)
	if err != nil {
		metrics.SnapshotFetchesTotal.WithLabelValues(providerLabel(s.provider), "error").Inc()
		logging.L(ctx).Error("snapshot fetch failed",
			"account_number", accountNumber,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load account history"})
		return
	}
	metrics.SnapshotFetchesTotal.WithLabelValues(providerLabel(s.provider), "ok").Inc()

	profile := analysis.AccountProfile(snap)
	patterns := s.behavior.Patterns(snap)
	indicators := analysis.AnomalyIndicators(snap)
	for _, tag := range indicators {
		metrics.AnomalyIndicatorsTotal.WithLabelValues(tag).Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"account_number":     accountNumber,
		"historical_metrics": snap,
		"calculated_metrics": gin.H{
			"risk_profile":        profile,
			"behavioral_patterns": patterns,
			"anomaly_indicators":  indicators,
		},
		"last_updated": history.FormatTimestamp(time.Now()),
	})
}

// listAssessmentsHandler handles GET /account/:account_number/assessments
// Supports cursor pagination via ?cursor= and ?limit= (default 50, max 200).
func (s *Server) listAssessmentsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	accountNumber := strings.TrimSpace(c.Param("account_number"))

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 200"})
			return
		}
		limit = n
	}

	var before *time.Time
	cursor, err := pagination.Decode(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
		return
	}
	if cursor != nil {
		before = &cursor.CreatedAt
	}

	// Fetch one extra row to detect whether another page exists.
	assessments, err := s.engine.Assessments(ctx, accountNumber, before, limit+1)
	if err != nil {
		logging.L(ctx).Error("assessment lookup failed",
			"account_number", accountNumber,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load assessments"})
		return
	}

	page, next, hasMore := pagination.ComputePage(assessments, limit, func(a *scoring.Assessment) (time.Time, string) {
		return a.EvaluatedAt, a.ID
	})

	resp := gin.H{
		"account_number": accountNumber,
		"assessments":    page,
		"count":          len(page),
		"has_more":       hasMore,
	}
	if next != "" {
		resp["next_cursor"] = next
	}
	c.JSON(http.StatusOK, resp)
}

// healthHandler always reports healthy; orchestrators use the probes below.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   history.FormatTimestamp(time.Now()),
		"version":     config.Version,
		"environment": s.cfg.Env,
	})
}

func (s *Server) livenessHandler(c *gin.Context) {
	if !s.healthy.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}

	checks, ok := s.checks.CheckAll(c.Request.Context())
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

func providerLabel(p history.Provider) string {
	if _, ok := p.(*history.PostgresProvider); ok {
		return "postgres"
	}
	return "synthetic"
}
