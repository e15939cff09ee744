package llm

import (
	"context"
	"fmt"
)

// ProviderKeys holds per-provider API keys from config.
type ProviderKeys struct {
	Gemini    string
	OpenAI    string
	Anthropic string
}

// ClientFactory builds audited clients per provider. Only Gemini is wired
// today; other providers fail with ErrUnknownProvider so the orchestrator
// surfaces a provider-unavailable error instead of guessing.
type ClientFactory struct {
	keys  ProviderKeys
	rec   Recorder
	rps   float64
	burst int
}

func NewClientFactory(keys ProviderKeys, rec Recorder, rps float64, burst int) *ClientFactory {
	return &ClientFactory{keys: keys, rec: rec, rps: rps, burst: burst}
}

func (f *ClientFactory) New(ctx context.Context, provider, model string) (Client, error) {
	provider = NormalizeProvider(provider)
	switch provider {
	case "gemini":
		if f.keys.Gemini == "" {
			return nil, fmt.Errorf("%w: no API key for %s", ErrUnknownProvider, provider)
		}
		cli, err := NewGeminiClient(ctx, f.keys.Gemini, model, f.rps, f.burst)
		if err != nil {
			return nil, err
		}
		return WithAudit(cli, provider, model, f.rec), nil
	case "fake":
		// Offline mode: deterministic responses, still audited.
		return WithAudit(NewFakeClient(), provider, model, f.rec), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}
