package pipeline

import (
	"fmt"

	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
	"github.com/postforge/postforge/pkg/postkit/prompt"
)

// DefaultSystemPrompt is the built-in system instruction for style-matched
// social post generation.
const DefaultSystemPrompt = `You are a social media content specialist with expertise in matching writing styles and voice across platforms. Your task is to:
1. Analyze the provided example post(s) by examining:
   - Writing style, tone, and voice
   - Sentence structure and length
   - Use of hashtags, emojis, and formatting
   - Engagement techniques and calls-to-action
2. Generate a new LinkedIn post about the given topic that matches:
   - The identified writing style and tone
   - Similar structure and formatting choices
   - Equivalent use of platform features and hashtags
   - Comparable engagement elements
3. Return only the generated post, formatted exactly as it would appear on LinkedIn, without any additional commentary or explanations.`

// DefaultPromptTemplate is the built-in user message template. It
// references exactly the three recognized placeholders.
const DefaultPromptTemplate = `example posts:
{example_posts}
context:
{context}
additional instructions:
{additional_instructions}`

// Settings holds the recognized initialization keys for a pipeline.
// Immutable for the lifetime of an initialized pipeline; credentials are
// deliberately absent and resolve from the environment instead.
type Settings struct {
	SystemPrompt   string
	PromptTemplate string
	ModelProvider  string
	ModelName      string
}

// DefaultSettings returns settings with the built-in prompt and template
// for the given provider and model
func DefaultSettings(providerID, model string) Settings {
	return Settings{
		SystemPrompt:   DefaultSystemPrompt,
		PromptTemplate: DefaultPromptTemplate,
		ModelProvider:  providerID,
		ModelName:      model,
	}
}

// Validate checks settings completeness and template well-formedness.
// Provider id resolution happens separately against the provider registry.
func (s Settings) Validate() error {
	if s.SystemPrompt == "" {
		return pkerrors.New("pipeline", "validate_settings",
			fmt.Errorf("%w: system_prompt is required", pkerrors.ErrInvalidConfig))
	}
	if s.PromptTemplate == "" {
		return pkerrors.New("pipeline", "validate_settings",
			fmt.Errorf("%w: prompt_template is required", pkerrors.ErrInvalidConfig))
	}
	if s.ModelProvider == "" {
		return pkerrors.New("pipeline", "validate_settings",
			fmt.Errorf("%w: model_provider is required", pkerrors.ErrInvalidConfig))
	}

	return prompt.ValidateTemplate(s.PromptTemplate)
}
