// Package idgen generates request and transaction identifiers.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Transaction builds a transaction identifier from the given instant at
// second granularity, e.g. "TXN_20250114_093042".
func Transaction(t time.Time) string {
	return "TXN_" + t.Format("20060102_150405")
}

// Request generates a random 32-hex-char request identifier.
func Request() string {
	return Hex(16)
}

// Hex generates a random hex string of the given byte length.
func Hex(numBytes int) string {
	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}
