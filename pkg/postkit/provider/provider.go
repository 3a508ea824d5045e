// Package provider defines the completion client interface for text-generation services
package provider

import (
	"context"

	"github.com/postforge/postforge/pkg/postkit/config"
)

// Message roles. A composed prompt carries exactly one system message
// followed by one user message.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat-style message
type Message struct {
	Role    string
	Content string
}

// Prompt is an ordered sequence of messages sent to a provider
type Prompt []Message

// SystemMessage creates a system-role message
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user-role message
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Provider represents a text-generation service reachable via a
// chat-completion-style API
type Provider interface {
	// Complete sends one blocking completion request and returns the first
	// candidate. Implementations never retry; the caller decides.
	Complete(ctx context.Context, prompt Prompt) (Response, error)

	// Information methods
	Name() string
	Model() string
}

// Response contains the output from a completion provider
type Response struct {
	// Content is the text of the first candidate
	Content string

	// Model identifies the model used
	Model string

	// Provider identifies the provider used
	Provider string

	// Usage contains token usage information when the provider reports it
	Usage *UsageInfo
}

// UsageInfo contains token usage statistics
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Factory creates Provider instances
type Factory interface {
	// Name returns the provider id this factory serves
	Name() string

	// Create returns a new Provider instance. Credential and endpoint
	// resolution happens here, so a misconfigured provider fails before
	// any request is accepted.
	Create(cfg config.Config) (Provider, error)

	// Aliases returns alternate ids accepted for this provider
	Aliases() []string
}
