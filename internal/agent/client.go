// File: internal/agent/client.go
package agent

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/config"
)

// Client defines the interface for the external model API.
type Client interface {
	// ParseCV uploads a raw CV and returns the structured profile the model
	// extracted from it, as raw JSON.
	ParseCV(ctx context.Context, filename string, content []byte) ([]byte, error)
	// Simulate sends a prompt and returns the interviewer's reply.
	Simulate(ctx context.Context, prompt string) (string, error)
}

type restyClient struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a model API client bound to MODEL_API_URL. Every call is
// capped by the configured timeout; there are no retries, a slow upstream
// should fail fast rather than stall the interview.
func NewClient(cfg *config.Config, logger *zap.Logger) Client {
	httpClient := resty.New().
		SetBaseURL(cfg.ModelAPIURL).
		SetTimeout(cfg.ModelAPITimeout)

	return &restyClient{
		http:   httpClient,
		logger: logger.Named("agent_client"),
	}
}

func (c *restyClient) ParseCV(ctx context.Context, filename string, content []byte) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(content)).
		Post("/parse")
	if err != nil {
		c.logger.Error("Model API parse request failed", zap.Error(err))
		return nil, fmt.Errorf("model API parse request failed: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Model API parse returned an error status",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return nil, fmt.Errorf("model API parse returned status %d", resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		c.logger.Error("Model API parse returned invalid JSON")
		return nil, fmt.Errorf("model API parse returned invalid JSON")
	}
	return body, nil
}

func (c *restyClient) Simulate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"prompt": prompt}).
		Post("/simulate")
	if err != nil {
		c.logger.Error("Model API simulate request failed", zap.Error(err))
		return "", fmt.Errorf("model API simulate request failed: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Model API simulate returned an error status",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return "", fmt.Errorf("model API simulate returned status %d", resp.StatusCode())
	}

	reply := gjson.GetBytes(resp.Body(), "response")
	if !reply.Exists() {
		c.logger.Error("Model API simulate response is missing the response field",
			zap.String("body", resp.String()))
		return "", fmt.Errorf("model API simulate response is missing the response field")
	}
	return reply.String(), nil
}
