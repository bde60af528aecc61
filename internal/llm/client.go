package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/brainbee-training/brainbee-backend/config"
)

// Client is the chat + embeddings surface the rest of the backend depends on.
type Client interface {
	Chat(ctx context.Context, system, user string, opts ...ChatOption) (string, error)
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

type ChatOption func(*chatOptions)

type chatOptions struct {
	temperature float64
	topP        float64
	maxTokens   int
}

func WithTemperature(t float64) ChatOption { return func(o *chatOptions) { o.temperature = t } }
func WithTopP(p float64) ChatOption        { return func(o *chatOptions) { o.topP = p } }
func WithMaxTokens(n int) ChatOption       { return func(o *chatOptions) { o.maxTokens = n } }

type httpClient struct {
	baseURL    string
	apiKey     string
	apiVersion string // non-empty switches to Azure-style auth and paths
	chatModel  string
	embedModel string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(cfg config.OpenAIConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: API key is not set")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}

	return &httpClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		chatModel:  cfg.ChatModel,
		embedModel: cfg.EmbedModel,
		http:       &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries: cfg.MaxRetries,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *httpClient) Chat(ctx context.Context, system, user string, opts ...ChatOption) (string, error) {
	o := chatOptions{temperature: 0.7, topP: 0.9}
	for _, opt := range opts {
		opt(&o)
	}

	req := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: &o.temperature,
		TopP:        &o.topP,
		MaxTokens:   o.maxTokens,
	}
	if c.apiVersion == "" {
		req.Model = c.chatModel
	}

	var resp chatResponse
	if err := c.do(ctx, c.chatPath(), req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty chat response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type embeddingsRequest struct {
	Model string   `json:"model,omitempty"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *httpClient) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	clean := make([]string, len(inputs))
	for i := range inputs {
		s := strings.TrimSpace(inputs[i])
		if s == "" {
			s = " "
		}
		clean[i] = s
	}

	req := embeddingsRequest{Input: clean}
	if c.apiVersion == "" {
		req.Model = c.embedModel
	}

	var resp embeddingsResponse
	if err := c.do(ctx, c.embedPath(), req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(clean) {
		return nil, fmt.Errorf("llm: embeddings response has %d vectors, want %d", len(resp.Data), len(clean))
	}

	out := make([][]float32, len(clean))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("llm: embedding index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		out[d.Index] = vec
	}
	return out, nil
}

func (c *httpClient) chatPath() string {
	if c.apiVersion != "" {
		return "/openai/deployments/" + url.PathEscape(c.chatModel) + "/chat/completions?api-version=" + url.QueryEscape(c.apiVersion)
	}
	return "/v1/chat/completions"
}

func (c *httpClient) embedPath() string {
	if c.apiVersion != "" {
		return "/openai/deployments/" + url.PathEscape(c.embedModel) + "/embeddings?api-version=" + url.QueryEscape(c.apiVersion)
	}
	return "/v1/embeddings"
}

type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("llm: http %d: %s", e.StatusCode, e.Body)
}

func retryable(err error) bool {
	if apiErr, ok := err.(*apiError); ok {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	// Transport-level failures are worth one more try.
	return true
}

func (c *httpClient) do(ctx context.Context, path string, body, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.doOnce(ctx, path, body, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt >= c.maxRetries || !retryable(err) {
			return err
		}

		log.Printf("[llm] request retrying path=%s attempt=%d err=%v", path, attempt+1, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (c *httpClient) doOnce(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiVersion != "" {
		req.Header.Set("api-key", c.apiKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("llm: decode response: %w", err)
	}
	return nil
}
