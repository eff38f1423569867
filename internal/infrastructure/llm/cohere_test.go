package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	coherecore "github.com/cohere-ai/cohere-go/v2/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCohereRateLimitClassification(t *testing.T) {
	t.Parallel()

	tooMany := &cohere.TooManyRequestsError{APIError: &coherecore.APIError{StatusCode: http.StatusTooManyRequests}}
	assert.True(t, isCohereRateLimit(tooMany))
	assert.True(t, isCohereRateLimit(&coherecore.APIError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, isCohereRateLimit(&coherecore.APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, isCohereRateLimit(errors.New("timeout")))
}

func TestNewCohereClient(t *testing.T) {
	t.Parallel()

	_, err := NewCohereClient("", "", time.Second)
	require.Error(t, err)

	c, err := NewCohereClient("key", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "cohere", c.Name())
	assert.Equal(t, defaultCohereModel, c.model)
}
