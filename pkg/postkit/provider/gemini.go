package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/postforge/postforge/pkg/postkit/config"
	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
)

const (
	defaultGeminiModel = "gemini-1.5-flash"

	envGeminiAPIKey = "GEMINI_API_KEY"
)

// GeminiProvider implements Provider using Google's Generative AI SDK
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// GeminiFactory creates Gemini providers
type GeminiFactory struct{}

// Name returns the provider id
func (f *GeminiFactory) Name() string {
	return "gemini"
}

// Aliases returns alternate ids for this provider
func (f *GeminiFactory) Aliases() []string {
	return []string{"google"}
}

// Create returns a new Gemini provider
func (f *GeminiFactory) Create(cfg config.Config) (Provider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(envGeminiAPIKey)
	}
	if apiKey == "" {
		return nil, pkerrors.New("gemini", "create",
			fmt.Errorf("%w: %s is not set", pkerrors.ErrInvalidConfig, envGeminiAPIKey))
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, pkerrors.New("gemini", "create", err)
	}

	model := client.GenerativeModel(modelName)
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}
	model.SetTemperature(float32(cfg.Temperature))

	return &GeminiProvider{
		client: client,
		model:  model,
		name:   modelName,
	}, nil
}

// Name returns the provider id
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the configured model
func (p *GeminiProvider) Model() string {
	return p.name
}

// Complete sends one generation request and returns the first candidate
func (p *GeminiProvider) Complete(ctx context.Context, prompt Prompt) (Response, error) {
	system, user := SplitPrompt(prompt)

	model := p.model
	if system != "" {
		// SystemInstruction is per-request state, so work on a copy.
		clone := *p.model
		clone.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
		model = &clone
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return Response{}, pkerrors.New("gemini", "complete", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Response{}, pkerrors.New("gemini", "complete", pkerrors.ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	response := Response{
		Content:  strings.TrimSpace(sb.String()),
		Model:    p.name,
		Provider: "gemini",
	}

	if resp.UsageMetadata != nil {
		response.Usage = &UsageInfo{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return response, nil
}
