// Package image generates summary illustrations with Gemini image models.
package image

import (
	"context"
	"log"

	genai "google.golang.org/genai"
)

// Image-capable models, in order of preference.
var rasterModels = []string{
	"gemini-3-pro-image-preview",
	"gemini-2.5-flash-image",
}

// Service wraps the genai client for raster image generation.
type Service struct {
	cli *genai.Client
}

func New(ctx context.Context, apiKey string) (*Service, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Service{cli: cli}, nil
}

// Generate returns PNG bytes for the prompt, trying each model in order.
// A nil result with nil error means no model produced an image; callers
// treat the illustration as optional.
func (s *Service) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if s == nil || s.cli == nil {
		return nil, nil
	}
	var lastErr error
	for _, model := range rasterModels {
		resp, err := s.cli.Models.GenerateContent(ctx, model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{
				ResponseModalities: []string{"IMAGE", "TEXT"},
			},
		)
		if err != nil {
			lastErr = err
			log.Printf("image: %s failed: %v", model, err)
			continue
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					return part.InlineData.Data, nil
				}
			}
		}
	}
	return nil, lastErr
}
