package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/postforge/postforge/pkg/httputil"
	"github.com/postforge/postforge/pkg/postkit/config"
	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
)

const (
	defaultAnthropicURL   = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel = "claude-3-5-sonnet-20240620"
	anthropicVersion      = "2023-06-01"

	envAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// AnthropicProvider implements Provider over the Anthropic messages API
type AnthropicProvider struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	timeout     httputil.ClientOptions
}

// AnthropicFactory creates Anthropic providers
type AnthropicFactory struct{}

// Name returns the provider id
func (f *AnthropicFactory) Name() string {
	return "anthropic"
}

// Aliases returns alternate ids for this provider
func (f *AnthropicFactory) Aliases() []string {
	return []string{"claude"}
}

// Create returns a new Anthropic provider
func (f *AnthropicFactory) Create(cfg config.Config) (Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(envAnthropicAPIKey)
	}
	if apiKey == "" {
		return nil, pkerrors.New("anthropic", "create",
			fmt.Errorf("%w: %s is not set", pkerrors.ErrInvalidConfig, envAnthropicAPIKey))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}

	return &AnthropicProvider{
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     httputil.ClientOptions{Timeout: cfg.Timeout},
	}, nil
}

// Name returns the provider id
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Model returns the configured model
func (p *AnthropicProvider) Model() string {
	return p.model
}

// Complete sends one messages request and returns the first content block
func (p *AnthropicProvider) Complete(ctx context.Context, prompt Prompt) (Response, error) {
	system, user := SplitPrompt(prompt)

	requestBody := map[string]interface{}{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "user", "content": user},
		},
		"max_tokens":  p.maxTokens,
		"temperature": p.temperature,
	}
	if system != "" {
		requestBody["system"] = system
	}

	details := httputil.RequestDetails{
		URL:         p.baseURL,
		RequestBody: requestBody,
		AdditionalHeaders: map[string]string{
			"x-api-key":         p.apiKey,
			"anthropic-version": anthropicVersion,
		},
	}

	responseBody, err := httputil.PostJSON(ctx, details, p.timeout)
	if err != nil {
		return Response{}, pkerrors.New("anthropic", "complete", err)
	}

	var anthropicResp struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(responseBody, &anthropicResp); err != nil {
		return Response{}, pkerrors.New("anthropic", "parse_response", err)
	}

	if len(anthropicResp.Content) == 0 {
		return Response{}, pkerrors.New("anthropic", "complete", pkerrors.ErrEmptyResponse)
	}

	return Response{
		Content:  strings.TrimSpace(anthropicResp.Content[0].Text),
		Model:    p.model,
		Provider: "anthropic",
		Usage: &UsageInfo{
			PromptTokens:     anthropicResp.Usage.InputTokens,
			CompletionTokens: anthropicResp.Usage.OutputTokens,
			TotalTokens:      anthropicResp.Usage.InputTokens + anthropicResp.Usage.OutputTokens,
		},
	}, nil
}
