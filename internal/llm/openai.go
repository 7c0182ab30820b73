package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel      = "gemini-1.5-flash"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
)

// ErrNoAPIKey is returned by New when no credential is configured.
var ErrNoAPIKey = errors.New("no generation API key configured")

// Config holds the settings for an OpenAI-compatible completion endpoint.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	return c
}

// Client generates text through a chat completion endpoint.
type Client struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

// New creates a Client from cfg.
func New(cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg = cfg.withDefaults()

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(cfg.Timeout),
	)
	return &Client{client: &client, model: cfg.Model, logger: logger}, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt as a single user message and returns the text of
// the first choice.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: c.model,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no completion choices", c.model)
	}
	c.logger.Debug("completion received", "model", c.model, "elapsed", time.Since(start))
	return completion.Choices[0].Message.Content, nil
}
