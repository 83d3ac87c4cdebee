// Package validation provides input validation for the risk analyzer API.
package validation

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxRequestSize is the maximum request body size (1MB)
const MaxRequestSize = 1 << 20

// MaxStringLength is the maximum length for string fields
const MaxStringLength = 256

// RequiredTransactionFields are the fields a scoring request must carry,
// in the canonical order error messages list them.
var RequiredTransactionFields = []string{
	"tenant_id", "client_id", "account_number", "transaction_amount", "causal_code",
}

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// AccountParamMiddleware rejects requests whose :account_number URL
// parameter is missing or blank.
func AccountParamMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.Param("account_number")) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "account number is required",
			})
			return
		}
		c.Next()
	}
}

// SanitizeString trims whitespace, strips null bytes and limits length.
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.ReplaceAll(s, "\x00", "")
}

// MissingTransactionFields returns the required field names absent from a
// decoded scoring request, in canonical order. present reports whether the
// named field carried a value.
func MissingTransactionFields(present func(field string) bool) []string {
	var missing []string
	for _, f := range RequiredTransactionFields {
		if !present(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
