package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	coherecore "github.com/cohere-ai/cohere-go/v2/core"
)

const defaultCohereModel = "command-r-plus"

// CohereClient implements Provider using the Cohere chat API.
type CohereClient struct {
	client *cohereclient.Client
	model  string
}

var _ Provider = (*CohereClient)(nil)

// NewCohereClient builds a Cohere SDK client with its own HTTP timeout.
func NewCohereClient(apiKey, model string, timeout time.Duration) (*CohereClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("cohere API key is required")
	}
	if model == "" {
		model = defaultCohereModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	return &CohereClient{client: client, model: model}, nil
}

// Name identifies the provider inside the registry.
func (c *CohereClient) Name() string {
	return "cohere"
}

// Complete sends userPrompt with systemPrompt as the preamble.
func (c *CohereClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := c.model
	req := &cohere.ChatRequest{
		Message: userPrompt,
		Model:   &model,
	}
	if systemPrompt != "" {
		preamble := systemPrompt
		req.Preamble = &preamble
	}

	resp, err := c.client.Chat(ctx, req)
	if err != nil {
		if isCohereRateLimit(err) {
			return "", rateLimited(err)
		}
		return "", fmt.Errorf("cohere chat: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyDigest
	}

	return resp.Text, nil
}

func isCohereRateLimit(err error) bool {
	var tooMany *cohere.TooManyRequestsError
	if errors.As(err, &tooMany) {
		return true
	}
	var apiErr *coherecore.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
