package llm

import (
	"context"
	"errors"
)

var (
	// ErrEmptyResponse means the model returned no usable candidate text.
	ErrEmptyResponse = errors.New("llm: empty response from model")
	// ErrUnknownProvider means no client is configured for the requested provider.
	ErrUnknownProvider = errors.New("llm: unknown provider")
)

// Request carries one generation call. Label names the call site for
// logging and audit purposes ("first_question", "generate_report", ...).
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
	JSONMode     bool
	Label        string
}

// Client is a text-generation collaborator. Calls block, possibly for
// seconds; callers dispatch them onto a bounded pool. Cross-cutting
// concerns (audit logging, rate limiting) are applied by wrapping.
type Client interface {
	Name() string
	Call(ctx context.Context, req Request) (string, error)
	Close() error
}

// Factory builds a client for a provider/model pair. Provider aliases are
// normalized first (see NormalizeProvider).
type Factory interface {
	New(ctx context.Context, provider, model string) (Client, error)
}

// NormalizeProvider folds provider aliases onto canonical names.
func NormalizeProvider(provider string) string {
	if provider == "google" {
		return "gemini"
	}
	return provider
}
