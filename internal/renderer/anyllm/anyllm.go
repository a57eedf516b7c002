// Package anyllm provides a renderer adapter backed by
// github.com/mozilla-ai/any-llm-go, a unified multi-provider completion
// interface (OpenAI, Anthropic, Gemini, Ollama).
//
// Without explicit options each backend falls back to its usual environment
// variable for credentials (OPENAI_API_KEY, ANTHROPIC_API_KEY, ...).
package anyllm

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"
)

const systemPrompt = "You are a creative storyteller."

// Adapter implements renderer.Adapter by wrapping an any-llm-go provider.
type Adapter struct {
	backend     anyllmlib.Provider
	model       string
	temperature float64
	maxTokens   int
}

// New creates an Adapter for the given provider name and model.
//
// providerName is one of: "openai", "anthropic", "gemini", "ollama".
// opts are any-llm-go configuration options (e.g. anyllmlib.WithAPIKey,
// anyllmlib.WithBaseURL).
func New(providerName, model string, opts ...anyllmlib.Option) (*Adapter, error) {
	if providerName == "" {
		return nil, fmt.Errorf("anyllm: providerName must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}

	return &Adapter{
		backend:     backend,
		model:       model,
		temperature: 0.7,
		maxTokens:   2000,
	}, nil
}

// Generate sends the prompt to the backend with a storyteller system prompt
// and returns the completion text.
func (a *Adapter) Generate(ctx context.Context, prompt string) (string, error) {
	t := a.temperature
	mt := a.maxTokens
	params := anyllmlib.CompletionParams{
		Model: a.model,
		Messages: []anyllmlib.Message{
			{Role: anyllmlib.RoleSystem, Content: systemPrompt},
			{Role: anyllmlib.RoleUser, Content: prompt},
		},
		Temperature: &t,
		MaxTokens:   &mt,
	}

	resp, err := a.backend.Completion(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anyllm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("anyllm: empty choices in response")
	}
	return resp.Choices[0].Message.ContentString(), nil
}

// createBackend creates the underlying any-llm-go provider for the given
// provider name.
func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, gemini, ollama", providerName)
	}
}
