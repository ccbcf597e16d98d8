// Package ai provides factory functions for creating generation adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sopsearch-cli/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/sopsearch-cli/internal/adapters/driven/llm/failover"
	"github.com/custodia-labs/sopsearch-cli/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/sopsearch-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// CreateGenerator creates the generator for the given settings.
// Returns nil if the provider is not configured.
func CreateGenerator(settings *domain.GeneratorSettings) (driven.Generator, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropic.New(anthropic.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", settings.Provider)
	}
}

// CreateGeneratorChain builds the generator from primary and fallback
// settings. With both configured the result is a failover chain; with
// only the primary it is that generator directly; with neither it is
// nil, meaning answers stay offline.
func CreateGeneratorChain(primary, fallback *domain.GeneratorSettings) (driven.Generator, error) {
	var chain []driven.Generator

	for _, settings := range []*domain.GeneratorSettings{primary, fallback} {
		gen, err := CreateGenerator(settings)
		if err != nil {
			return nil, err
		}
		if gen != nil {
			chain = append(chain, gen)
		}
	}

	switch len(chain) {
	case 0:
		return nil, nil
	case 1:
		return chain[0], nil
	default:
		return failover.New(chain)
	}
}

// ValidateGenerator validates generator settings by creating the
// adapter and pinging it. Intended for configuration-time checks.
func ValidateGenerator(settings *domain.GeneratorSettings) error {
	gen, err := CreateGenerator(settings)
	if err != nil {
		return err
	}
	if gen == nil {
		return nil
	}
	defer gen.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return gen.Ping(ctx)
}
