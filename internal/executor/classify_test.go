package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name      string
		msg       string
		retryable bool
	}{
		{"network error", "network unreachable", true},
		{"timeout", "request timeout", true},
		{"connection refused", "connection refused by peer", true},
		{"temporary failure", "temporary routing failure", true},
		{"service unavailable", "503 service unavailable", true},
		{"try again", "node busy, try again later", true},
		{"rate limited", "rate limit exceeded", true},
		{"insufficient funds", "insufficient funds for payment", false},
		{"invalid invoice", "invalid invoice format", false},
		{"unauthorized", "unauthorized request", false},
		{"forbidden", "403 forbidden", false},
		{"not found", "route not found", false},
		{"malformed", "malformed callback response", false},
		{"expired invoice", "invoice expired", false},
		{"cancelled", "payment cancelled by recipient", false},
		{"case insensitive", "NETWORK TIMEOUT", true},
		{"case insensitive terminal", "Invoice EXPIRED", false},
		{"terminal keyword wins over retryable", "invalid network address", false},
		{"unrecognized defaults to retryable", "something odd happened", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, Retryable(tc.msg))
		})
	}
}
