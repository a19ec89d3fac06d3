package executor

import "strings"

// Keyword classification of free-text settlement errors. This is a
// heuristic: the SDK returns plain errors, so the message is all there is
// to go on. Structurally known failures (attempt timeouts) are classified
// before ever reaching this.
var (
	nonRetryableKeywords = []string{
		"insufficient",
		"invalid",
		"unauthorized",
		"forbidden",
		"not found",
		"malformed",
		"expired",
		"cancelled",
	}

	retryableKeywords = []string{
		"network",
		"timeout",
		"connection",
		"temporary",
		"service unavailable",
		"try again",
		"rate limit",
		"busy",
	}
)

// Retryable classifies an execution error message. Non-retryable keywords
// win when both lists match: they describe the request itself, and
// retrying cannot fix the request. Unrecognized execution errors default
// to retryable.
func Retryable(msg string) bool {
	lower := strings.ToLower(msg)
	for _, kw := range nonRetryableKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range retryableKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return true
}
