package openai

import (
	"context"
	"log/slog"

	"github.com/knowhaven/knowhaven/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Synthesizer implements ai.Synthesizer using OpenAI-compatible chat APIs.
type Synthesizer struct {
	llm    llms.Model
	logger *slog.Logger
}

// NewSynthesizer creates a new synthesizer using the provided configuration.
//
// Returns ai.Synthesizer interface to enforce abstraction.
func NewSynthesizer(config *ai.Config) (ai.Synthesizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Synthesizer{
		llm:    client,
		logger: slog.Default().With("component", "openai-synthesizer"),
	}, nil
}

// Generate produces an answer for the given prompt text.
func (s *Synthesizer) Generate(ctx context.Context, prompt string) (string, error) {
	s.logger.Debug("generating answer", "promptLength", len(prompt))

	answer, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt)
	if err != nil {
		s.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	return answer, nil
}
