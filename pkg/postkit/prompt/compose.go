// Package prompt composes chat prompts from exemplars, fetched context and instructions
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
	"github.com/postforge/postforge/pkg/postkit/provider"
)

// Recognized template placeholders. A template referencing any other
// {name} is rejected.
const (
	PlaceholderExamplePosts = "example_posts"
	PlaceholderContext      = "context"
	PlaceholderInstructions = "additional_instructions"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

var recognizedPlaceholders = map[string]bool{
	PlaceholderExamplePosts: true,
	PlaceholderContext:      true,
	PlaceholderInstructions: true,
}

// ValidateTemplate checks that every {name} reference in template is one
// of the three recognized placeholders. Called at pipeline initialization
// so a bad template never reaches a provider.
func ValidateTemplate(template string) error {
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if !recognizedPlaceholders[name] {
			return pkerrors.New("compose", "validate_template",
				fmt.Errorf("%w: unrecognized placeholder %q", pkerrors.ErrBadTemplate, name))
		}
	}
	return nil
}

// FormatExemplars numbers exemplars 1..N in presentation order and joins
// them with the fixed label format. Order is preserved; nothing is
// deduplicated.
func FormatExemplars(exemplars []string) string {
	var sb strings.Builder
	for i, text := range exemplars {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("Example %d:\n%s", i+1, text))
	}
	return sb.String()
}

// Compose merges the exemplar block, fetched context and instructions
// into the template and returns the two-message prompt: the system prompt
// verbatim, then the substituted template as the user message.
//
// Compose is pure: identical inputs always produce an identical prompt.
// No truncation or token budgeting happens here.
func Compose(exemplars []string, context, instructions, systemPrompt, template string) (provider.Prompt, error) {
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}

	user := strings.NewReplacer(
		"{"+PlaceholderExamplePosts+"}", FormatExemplars(exemplars),
		"{"+PlaceholderContext+"}", context,
		"{"+PlaceholderInstructions+"}", instructions,
	).Replace(template)

	return provider.Prompt{
		provider.SystemMessage(systemPrompt),
		provider.UserMessage(user),
	}, nil
}
