package bot

import (
	"strings"

	"capitol/internal/status"
)

// ResetClassifier decides whether a failed command should have its
// counters reset so retry logic starts from a clean slate. The rules that
// make an error "transient" are policy, not store behaviour, so the
// classifier is pluggable
type ResetClassifier interface {
	ResetWorthy(err error, meta *status.ErrorMeta) bool
}

// DefaultClassifier applies rules in a fixed order, first match wins:
// the tagged meta kind, then the HTTP status code, then well-known
// substrings of the error message
type DefaultClassifier struct{}

var transientStatusCodes = map[int]struct{}{
	429: {},
	502: {},
	503: {},
	504: {},
}

var transientFragments = []string{
	"timeout",
	"econnreset",
	"rate limit",
	"temporarily unavailable",
}

func (DefaultClassifier) ResetWorthy(err error, meta *status.ErrorMeta) bool {
	if meta != nil {
		switch meta.Kind {
		case status.MetaRateLimit, status.MetaNetwork:
			return true
		case status.MetaAuth, status.MetaUserInput:
			return false
		}
		if _, ok := transientStatusCodes[meta.StatusCode]; ok {
			return true
		}
	}
	if err != nil {
		message := strings.ToLower(err.Error())
		for _, fragment := range transientFragments {
			if strings.Contains(message, fragment) {
				return true
			}
		}
	}
	return false
}
