package classifier

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apperrors "go-image-classifier/internal/errors"
)

// Classifier sends one encoded image and a prompt to a vision model.
type Classifier interface {
	// Classify returns the model's trimmed answer for the image at dataURL.
	Classify(ctx context.Context, dataURL, prompt string) (string, error)
	// Model returns the configured model identifier.
	Model() string
}

// Config holds the endpoint settings fixed for the lifetime of a client.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	// Timeout bounds each HTTP call; zero leaves calls unbounded.
	Timeout time.Duration
}

// DefaultMaxTokens caps the length of the model's answer.
const DefaultMaxTokens = 250

// OpenAIClassifier talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClassifier struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClassifier builds a client from cfg. An empty BaseURL keeps the library default.
func NewOpenAIClassifier(cfg Config) *OpenAIClassifier {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &OpenAIClassifier{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Model returns the configured model identifier
func (c *OpenAIClassifier) Model() string {
	return c.model
}

// Classify sends a single user turn holding the image followed by the prompt.
func (c *OpenAIClassifier) Classify(ctx context.Context, dataURL, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
				},
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapRemoteError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewRemoteError("model returned no choices", nil)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// wrapRemoteError maps client and endpoint failures onto the application error types.
func wrapRemoteError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("model request timed out", err)
	}

	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewUnauthorizedError("model endpoint rejected credentials", err)
		}
		return apperrors.NewRemoteError(fmt.Sprintf("model endpoint error (status %d)", apiErr.HTTPStatusCode), err)
	}

	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusUnauthorized || reqErr.HTTPStatusCode == http.StatusForbidden {
			return apperrors.NewUnauthorizedError("model endpoint rejected credentials", err)
		}
		return apperrors.NewRemoteError(fmt.Sprintf("model request failed (status %d)", reqErr.HTTPStatusCode), err)
	}

	// Timeouts from http.Client surface as net errors rather than context errors.
	var timeoutErr interface{ Timeout() bool }
	if stderrors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return apperrors.NewTimeoutError("model request timed out", err)
	}

	return apperrors.NewRemoteError("model request failed", err)
}
