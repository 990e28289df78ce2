// Package ai talks to the text generation backend. Everything AI-assisted in
// the service goes through a Delegate so the backend is picked once at start
// up and handed to the services that need it.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNotConfigured = errors.New("no text generation backend configured")
	ErrEmptyResponse = errors.New("backend returned no text")
)

// Message is one turn of a conversation sent to the backend.
type Message struct {
	Role    string
	Content string
}

type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Delegate sends a request to the configured backend and returns its raw
// text. Implementations make exactly one outbound call and never retry.
type Delegate interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ProviderError wraps every failure coming out of a Delegate. Callers treat
// it as recoverable and fall back to a static answer where one exists.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ai provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type Config struct {
	Provider         string
	OpenAIKey        string
	OpenAIModel      string
	OpenAIBaseURL    string
	AnthropicKey     string
	AnthropicModel   string
	AnthropicBaseURL string
	// RateLimit is the number of outbound calls allowed per second; zero
	// disables throttling.
	RateLimit float64
	RateBurst int
}

// NewDelegate builds the delegate selected by cfg.Provider. An empty or
// "none" provider yields a delegate that fails every call.
func NewDelegate(cfg Config) (Delegate, error) {
	var d Delegate

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderNone:
		d = unconfigured{}
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
		d = NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER=anthropic")
		}
		d = NewAnthropic(cfg.AnthropicKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q (expected openai, anthropic or none)", cfg.Provider)
	}

	if cfg.RateLimit > 0 {
		d = WithRateLimit(d, cfg.RateLimit, cfg.RateBurst)
	}
	return d, nil
}

type unconfigured struct{}

func (unconfigured) Complete(ctx context.Context, req Request) (string, error) {
	return "", &ProviderError{Provider: ProviderNone, Err: ErrNotConfigured}
}

// Prompt wraps a single user prompt into a request for task.
func Prompt(task Task, prompt string) Request {
	return Request{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   task.MaxTokens,
		Temperature: task.Temperature,
	}
}
