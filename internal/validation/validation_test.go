package validation

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  ", 100))
	assert.Equal(t, "ab", SanitizeString("abcd", 2))
	assert.Equal(t, "ab", SanitizeString("a\x00b", 100))
}

func TestMissingTransactionFields(t *testing.T) {
	got := MissingTransactionFields(func(f string) bool { return f == "tenant_id" })
	assert.Equal(t, []string{"client_id", "account_number", "transaction_amount", "causal_code"}, got)

	assert.Nil(t, MissingTransactionFields(func(string) bool { return true }))
}

func TestAccountParamMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/account/:account_number/metrics", AccountParamMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account": c.Param("account_number")})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/account/ACC-1/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/account/%20/metrics", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "account number is required")
}
