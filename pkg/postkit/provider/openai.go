package provider

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/postforge/postforge/pkg/postkit/config"
	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
)

const (
	defaultOpenAIModel = "gpt-4o"

	envOpenAIAPIKey = "OPENAI_API_KEY"
)

// OpenAIProvider implements Provider using the OpenAI chat completions API.
// A BaseURL override points it at any OpenAI-compatible endpoint.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// OpenAIFactory creates OpenAI providers
type OpenAIFactory struct{}

// Name returns the provider id
func (f *OpenAIFactory) Name() string {
	return "openai"
}

// Aliases returns alternate ids for this provider
func (f *OpenAIFactory) Aliases() []string {
	return nil
}

// Create returns a new OpenAI provider. The API key resolves from the
// configuration or, failing that, the process environment.
func (f *OpenAIFactory) Create(cfg config.Config) (Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(envOpenAIAPIKey)
	}
	if apiKey == "" {
		return nil, pkerrors.New("openai", "create",
			fmt.Errorf("%w: %s is not set", pkerrors.ErrInvalidConfig, envOpenAIAPIKey))
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Name returns the provider id
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the configured model
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Complete sends one chat completion request and returns the first choice
func (p *OpenAIProvider) Complete(ctx context.Context, prompt Prompt) (Response, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(prompt))
	for _, m := range prompt {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   p.maxTokens,
		Temperature: float32(p.temperature),
	})
	if err != nil {
		return Response{}, pkerrors.New("openai", "complete", err)
	}

	if len(resp.Choices) == 0 {
		return Response{}, pkerrors.New("openai", "complete", pkerrors.ErrEmptyResponse)
	}

	return Response{
		Content:  resp.Choices[0].Message.Content,
		Model:    p.model,
		Provider: "openai",
		Usage: &UsageInfo{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
