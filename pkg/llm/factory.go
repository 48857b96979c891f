package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider identifies an LLM API provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// ProviderForModel determines the provider from a model name prefix.
func ProviderForModel(model string) (Provider, error) {
	switch {
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1"),
		strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "o4"):
		return ProviderOpenAI, nil
	case strings.HasPrefix(model, "claude-"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(model, "gemini-"):
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("cannot determine provider for model %q", model)
	}
}

// FactoryConfig carries everything needed to build a ready-to-use client.
type FactoryConfig struct {
	Model        string
	APIKeys      map[Provider]string
	CallTimeout  time.Duration
	Retry        RetryPolicy
	Instrumenter Middleware // Optional metrics middleware, applied outermost.
}

// NewClient builds the raw provider client for the configured model and
// wraps it with the standard middleware chain:
//
//	metrics -> retry -> timeout -> raw client
func NewClient(cfg FactoryConfig) (Client, error) {
	provider, err := ProviderForModel(cfg.Model)
	if err != nil {
		return nil, err
	}

	apiKey := cfg.APIKeys[provider]
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %s", provider)
	}

	var raw Client
	switch provider {
	case ProviderOpenAI:
		raw = NewOpenAIClient(apiKey, cfg.Model)
	case ProviderAnthropic:
		raw = NewAnthropicClient(apiKey, cfg.Model)
	case ProviderGemini:
		raw = NewGeminiClient(apiKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	middlewares := []Middleware{}
	if cfg.Instrumenter != nil {
		middlewares = append(middlewares, cfg.Instrumenter)
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy()
	}
	middlewares = append(middlewares,
		RetryMiddleware(retry),
		TimeoutMiddleware(cfg.CallTimeout),
	)

	return Chain(raw, middlewares...), nil
}
