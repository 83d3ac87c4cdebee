// Package auth enforces the function-level credential on restricted routes.
//
// Callers present the credential either in the x-functions-key header or as
// a ?code= query parameter, following the managed-function convention the
// service is deployed behind. The health probes stay unauthenticated.
package auth

import (
	"crypto/subtle"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/denarius-labs/riskd/internal/logging"
)

// HeaderFunctionKey is the credential header checked first.
const HeaderFunctionKey = "x-functions-key"

// QueryFunctionKey is the fallback query parameter.
const QueryFunctionKey = "code"

// KeyAuth validates function keys against a fixed set loaded at startup.
type KeyAuth struct {
	keys     []string
	warnOnce sync.Once
}

// New creates a validator. With no keys configured every request is allowed
// (development convenience); a warning is logged on first use.
func New(keys []string) *KeyAuth {
	return &KeyAuth{keys: keys}
}

// Open reports whether the validator accepts unauthenticated requests.
func (a *KeyAuth) Open() bool {
	return len(a.keys) == 0
}

// Valid checks a presented credential in constant time per configured key.
func (a *KeyAuth) Valid(presented string) bool {
	if a.Open() {
		return true
	}
	if presented == "" {
		return false
	}
	ok := false
	for _, k := range a.keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(presented)) == 1 {
			ok = true
		}
	}
	return ok
}

// Middleware rejects requests that do not carry a valid function key.
func (a *KeyAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Open() {
			a.warnOnce.Do(func() {
				logging.L(c.Request.Context()).Warn("no function keys configured, restricted routes are open")
			})
			c.Next()
			return
		}

		presented := c.GetHeader(HeaderFunctionKey)
		if presented == "" {
			presented = c.Query(QueryFunctionKey)
		}

		if !a.Valid(presented) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "valid function key required",
			})
			return
		}

		c.Next()
	}
}
