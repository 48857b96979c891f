package llm

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// GeminiClient wraps the Google GenAI client to implement the Client
// interface (raw client, middleware applied at a higher level).
type GeminiClient struct {
	apiKey string
	model  string

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGeminiClient creates a Gemini client for the given model. The underlying
// SDK client requires a context, so it is created once on first use.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
	}
}

// init creates the SDK client exactly once. One GeminiClient is shared by
// concurrent pipelines, so the creation must not race.
func (c *GeminiClient) init(ctx context.Context) (*genai.Client, error) {
	c.initOnce.Do(func() {
		c.client, c.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return c.client, c.initErr
}

// Complete implements the Client interface.
func (c *GeminiClient) Complete(ctx context.Context, in CompletionRequest) (CompletionResponse, error) {
	client, err := c.init(ctx)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	var systemInstruction string
	var contents []*genai.Content
	for i := range in.Messages {
		msg := &in.Messages[i]
		switch msg.Role {
		case RoleSystem:
			systemInstruction += msg.Content
		case RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	temp := in.Temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if in.MaxTokens > 0 {
		config.MaxOutputTokens = int32(in.MaxTokens)
	}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("gemini generate content failed: %w", err)
	}
	if result == nil || result.Text() == "" {
		return CompletionResponse{}, fmt.Errorf("empty response from Gemini")
	}

	return CompletionResponse{Content: result.Text()}, nil
}

// ModelName implements the Client interface.
func (c *GeminiClient) ModelName() string {
	return c.model
}
