// Package openrouter implements the AIClient port against OpenAI-compatible
// APIs: chat completions via OpenRouter and embeddings via OpenAI.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/observability"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/config"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// Client implements domain.AIClient. Per-call deadlines come from the caller's
// context; the transport timeout is only a backstop.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a client with a traced transport and a generous backstop timeout.
func New(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

var _ domain.AIClient = (*Client)(nil)

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatJSON calls the chat completions endpoint and returns the raw message
// content. Extraction prompts always request a JSON object response.
func (c *Client) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if c.cfg.OpenRouterAPIKey == "" {
		return "", fmt.Errorf("%w: OPENROUTER_API_KEY missing", domain.ErrInvalidArgument)
	}
	body := chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:      maxTokens,
		Temperature:    0,
		ResponseFormat: &respFormat{Type: "json_object"},
	}
	start := time.Now()
	raw, err := c.post(ctx, c.cfg.OpenRouterBaseURL+"/chat/completions", c.cfg.OpenRouterAPIKey, body)
	observability.AIRequestsTotal.WithLabelValues("openrouter", "chat").Inc()
	observability.AIRequestDuration.WithLabelValues("openrouter", "chat").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("op=openrouter.ChatJSON decode: %w", domain.ErrInvalidJSON)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("op=openrouter.ChatJSON: %w: empty choices", domain.ErrSchemaInvalid)
	}
	return cr.Choices[0].Message.Content, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed calls the embeddings endpoint and returns vectors in input order.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if c.cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY missing", domain.ErrInvalidArgument)
	}
	if len(texts) == 0 {
		return nil, nil
	}
	start := time.Now()
	raw, err := c.post(ctx, c.cfg.OpenAIBaseURL+"/embeddings", c.cfg.OpenAIAPIKey, embedRequest{
		Model: c.cfg.EmbeddingsModel,
		Input: texts,
	})
	observability.AIRequestsTotal.WithLabelValues("openai", "embed").Inc()
	observability.AIRequestDuration.WithLabelValues("openai", "embed").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	var er embedResponse
	if err := json.Unmarshal(raw, &er); err != nil {
		return nil, fmt.Errorf("op=openrouter.Embed decode: %w", domain.ErrInvalidJSON)
	}
	if len(er.Data) != len(texts) {
		return nil, fmt.Errorf("op=openrouter.Embed: %w: got %d vectors for %d inputs", domain.ErrSchemaInvalid, len(er.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, d := range er.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("op=openrouter.Embed: %w: index %d out of range", domain.ErrSchemaInvalid, d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, url, apiKey string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("op=openrouter.post marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("op=openrouter.post: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("op=openrouter.post: %w", domain.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("op=openrouter.post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("op=openrouter.post read: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("op=openrouter.post: %w", domain.ErrUpstreamRateLimit)
	case resp.StatusCode >= 400:
		slog.Warn("upstream ai error",
			slog.String("url", url),
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("op=openrouter.post: upstream status %d: %w", resp.StatusCode, domain.ErrInternal)
	}
	return raw, nil
}
