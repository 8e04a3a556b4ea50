package bot

import (
	"fmt"
	"testing"

	"capitol/internal/status"

	"github.com/stretchr/testify/assert"
)

func TestClassifierMetaKindWinsOverEverything(t *testing.T) {
	classifier := DefaultClassifier{}

	// An auth error stays non-resettable even with a transient status code
	// and a transient-looking message
	err := fmt.Errorf("rate limit timeout")
	meta := &status.ErrorMeta{Kind: status.MetaAuth, StatusCode: 503}
	assert.False(t, classifier.ResetWorthy(err, meta))

	assert.True(t, classifier.ResetWorthy(nil, &status.ErrorMeta{Kind: status.MetaRateLimit}))
	assert.True(t, classifier.ResetWorthy(nil, &status.ErrorMeta{Kind: status.MetaNetwork}))
	assert.False(t, classifier.ResetWorthy(nil, &status.ErrorMeta{Kind: status.MetaUserInput, StatusCode: 429}))
}

func TestClassifierStatusCodes(t *testing.T) {
	classifier := DefaultClassifier{}
	for _, code := range []int{429, 502, 503, 504} {
		assert.True(t, classifier.ResetWorthy(nil, &status.ErrorMeta{Kind: status.MetaGeneric, StatusCode: code}), "code %d", code)
	}
	assert.False(t, classifier.ResetWorthy(nil, &status.ErrorMeta{Kind: status.MetaGeneric, StatusCode: 500}))
	assert.False(t, classifier.ResetWorthy(nil, &status.ErrorMeta{Kind: status.MetaGeneric, StatusCode: 404}))
}

func TestClassifierMessageFragments(t *testing.T) {
	classifier := DefaultClassifier{}
	assert.True(t, classifier.ResetWorthy(fmt.Errorf("request Timeout after 30s"), nil))
	assert.True(t, classifier.ResetWorthy(fmt.Errorf("read: ECONNRESET"), nil))
	assert.True(t, classifier.ResetWorthy(fmt.Errorf("you are being rate limited"), nil))
	assert.False(t, classifier.ResetWorthy(fmt.Errorf("invalid argument"), nil))
	assert.False(t, classifier.ResetWorthy(nil, nil))
}
