// Package ai provides the client for the text-generation upstream. The
// upstream is consumed through its OpenAI-compatible endpoint, so the plain
// openai client works against it unchanged.
package ai

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/nutrisense/nutrisense/internal/profile"
	apierrors "github.com/nutrisense/nutrisense/internal/errors"
)

// Config holds the generation upstream configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
		Model:       "gemini-2.5-flash",
		MaxTokens:   800,
		Temperature: 0.8,
		Timeout:     10 * time.Second,
	}
}

// NewConfigFromProfile builds a Config from the server profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := DefaultConfig()
	cfg.APIKey = p.GeminiAPIKey
	if p.GeminiBaseURL != "" {
		cfg.BaseURL = p.GeminiBaseURL
	}
	if p.GeminiModel != "" {
		cfg.Model = p.GeminiModel
	}
	return cfg
}

// Generator is the text-generation interface consumed by the chat and
// nutrition services.
type Generator interface {
	// Generate submits a prompt and returns the completion text.
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// Provider implements Generator over the OpenAI-compatible API.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new generation provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, apierrors.ConfigurationMissing("generation API key is not configured")
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 800
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Model returns the configured model name.
func (p *Provider) Model() string {
	return p.config.Model
}

// Generate submits a prompt and returns the completion text. The call carries
// a timeout and is never retried; callers get a best-effort response or a
// typed failure.
func (p *Provider) Generate(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	if maxTokens <= 0 {
		maxTokens = p.config.MaxTokens
	}
	if temperature <= 0 {
		temperature = p.config.Temperature
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apierrors.Timeout("generation request timed out")
		}
		return "", apierrors.UpstreamUnavailable("generation request failed", err)
	}

	// An empty candidate list means the response was safety-filtered; empty
	// content means the candidate carried no usable parts. Both are rejections
	// rather than transport failures.
	if len(resp.Choices) == 0 {
		return "", apierrors.UpstreamRejected("response blocked by safety filter")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", apierrors.UpstreamRejected("response contained no content")
	}

	return content, nil
}

var _ Generator = (*Provider)(nil)
