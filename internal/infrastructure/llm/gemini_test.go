package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiRateLimitClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, isGeminiRateLimit(fmt.Errorf("call: %w", genai.APIError{Code: http.StatusTooManyRequests})))
	assert.True(t, isGeminiRateLimit(genai.APIError{Code: 400, Status: "RESOURCE_EXHAUSTED"}))
	assert.False(t, isGeminiRateLimit(genai.APIError{Code: http.StatusInternalServerError}))
	assert.False(t, isGeminiRateLimit(errors.New("dial tcp: refused")))
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiClient(context.Background(), "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func geminiServer(t *testing.T, status int, body string) *GeminiClient {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := newGeminiClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	}, defaultGeminiModel)
	require.NoError(t, err)
	return client
}

func TestGeminiClientComplete(t *testing.T) {
	t.Parallel()

	client := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"hello"}]}}]}`)

	text, err := client.Complete(context.Background(), "be brief", "Article 1")

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "gemini", client.Name())
}

func TestGeminiClientRateLimit(t *testing.T) {
	t.Parallel()

	client := geminiServer(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)

	_, err := client.Complete(context.Background(), "", "Article 1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
}
