// Package gemini implements the reconcile capability contracts against the
// Google Gemini API using the GenAI SDK.
package gemini

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/northstarhq/northstar/pkg/errors"
	"github.com/northstarhq/northstar/pkg/reconcile"
)

const provider = "gemini"

// Client calls the Gemini API with an API key. It implements
// reconcile.Client. The underlying GenAI client is created lazily and
// reused across calls.
type Client struct {
	apiKey string

	mu          sync.Mutex
	genaiClient *genai.Client
}

// NewClient creates a new Gemini client.
func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey}
}

// client returns the cached GenAI client, creating it on first use.
func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.genaiClient != nil {
		return c.genaiClient, nil
	}

	if c.apiKey == "" {
		return nil, &errors.ConfigError{
			Component: provider,
			Message:   "GEMINI_API_KEY not set",
			Err:       errors.ErrAPIKeyRequired,
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return nil, errors.NewConfigError(provider, "failed to create GenAI client", err)
	}

	c.genaiClient = client
	return client, nil
}

// ListModels retrieves all available models, following pagination.
func (c *Client) ListModels(ctx context.Context) ([]reconcile.ModelInfo, error) {
	client, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	var models []reconcile.ModelInfo
	pageToken := ""

	for {
		config := &genai.ListModelsConfig{
			QueryBase: genai.Ptr(true),
			PageSize:  100,
		}
		if pageToken != "" {
			config.PageToken = pageToken
		}

		page, err := client.Models.List(ctx, config)
		if err != nil {
			return nil, convertError("models", err)
		}

		for _, model := range page.Items {
			models = append(models, reconcile.ModelInfo{
				Name:    model.Name,
				Actions: model.SupportedActions,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return models, nil
}

// GenerateContent performs a single-shot completion. The model is asked to
// respond with JSON, though callers must not rely on it complying.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string) (string, error) {
	client, err := c.client(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", convertError("generateContent", err)
	}

	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	parts := make([]string, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// convertError maps GenAI SDK errors to APIError, preserving the upstream
// status code and body so the engine's retry predicate can inspect them.
func convertError(endpoint string, err error) error {
	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return &errors.APIError{
			Provider:   provider,
			Endpoint:   endpoint,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return &errors.APIError{
		Provider: provider,
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
}
