package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denarius-labs/riskd/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:          "8080",
		Env:           "development",
		LogLevel:      "error",
		RateLimitRPM:  10000,
		SyntheticSeed: 42,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
	})
	return s
}

func TestProcessTransaction_Success(t *testing.T) {
	s := newTestServer(t, testConfig())

	body := `{
		"tenant_id": "tenant-1",
		"client_id": "client-1",
		"account_number": "ACC-1001",
		"transaction_amount": 250.0,
		"causal_code": "PAYMENT"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/process-transaction", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		TransactionID   string          `json:"transaction_id"`
		AccountNumber   string          `json:"account_number"`
		RiskScore       float64         `json:"risk_score"`
		RiskLevel       string          `json:"risk_level"`
		Metrics         json.RawMessage `json:"calculated_metrics"`
		Recommendations []string        `json:"recommendations"`
		ProcessedAt     string          `json:"processing_timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, strings.HasPrefix(resp.TransactionID, "TXN_"), resp.TransactionID)
	assert.Equal(t, "ACC-1001", resp.AccountNumber)
	assert.GreaterOrEqual(t, resp.RiskScore, 0.0)
	assert.LessOrEqual(t, resp.RiskScore, 100.0)
	assert.Contains(t, []string{"LOW", "MEDIUM", "HIGH"}, resp.RiskLevel)
	assert.Len(t, resp.Recommendations, 2)
	assert.NotEmpty(t, resp.ProcessedAt)
}

func TestProcessTransaction_MissingBody(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/process-transaction", nil)
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestProcessTransaction_MissingFields(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/process-transaction", strings.NewReader(`{"tenant_id":"t1"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "missing required fields: client_id, account_number, transaction_amount, causal_code", resp.Error)
}

func TestProcessTransaction_NonPositiveAmount(t *testing.T) {
	s := newTestServer(t, testConfig())

	body := `{
		"tenant_id": "t1",
		"client_id": "c1",
		"account_number": "ACC-1",
		"transaction_amount": 0,
		"causal_code": "PAYMENT"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/process-transaction", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "greater than zero")
}

func TestAccountMetrics(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/account/ACC-2002/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccountNumber string `json:"account_number"`
		Historical    struct {
			AvgTransactionAmount float64 `json:"avg_transaction_amount"`
		} `json:"historical_metrics"`
		Calculated struct {
			RiskProfile struct {
				ProfileType string `json:"profile_type"`
			} `json:"risk_profile"`
			BehavioralPatterns json.RawMessage `json:"behavioral_patterns"`
			AnomalyIndicators  []string        `json:"anomaly_indicators"`
		} `json:"calculated_metrics"`
		LastUpdated string `json:"last_updated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "ACC-2002", resp.AccountNumber)
	assert.Greater(t, resp.Historical.AvgTransactionAmount, 0.0)
	assert.NotEmpty(t, resp.Calculated.RiskProfile.ProfileType)
	assert.NotEmpty(t, resp.Calculated.AnomalyIndicators)
	assert.NotEmpty(t, resp.LastUpdated)
}

func TestListAssessments_EmptyAccount(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/account/ACC-3003/assessments", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccountNumber string `json:"account_number"`
		Count         int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ACC-3003", resp.AccountNumber)
	assert.Equal(t, 0, resp.Count)
}

func TestHealthAlwaysHealthy(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status      string `json:"status"`
		Version     string `json:"version"`
		Environment string `json:"environment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, config.Version, resp.Version)
	assert.Equal(t, "development", resp.Environment)
}

func TestFunctionKeyRequired(t *testing.T) {
	cfg := testConfig()
	cfg.FunctionKeys = []string{"key-1"}
	s := newTestServer(t, cfg)

	// No credential
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/account/ACC-1/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Query credential
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/account/ACC-1/metrics?code=key-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays open
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpointOpen(t *testing.T) {
	cfg := testConfig()
	cfg.FunctionKeys = []string{"key-1"}
	s := newTestServer(t, cfg)

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))
}
