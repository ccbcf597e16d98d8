package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

func TestCreateGenerator_Unconfigured(t *testing.T) {
	gen, err := CreateGenerator(&domain.GeneratorSettings{})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = CreateGenerator(nil)
	require.NoError(t, err)
	assert.Nil(t, gen)
}

func TestCreateGenerator_CloudProviderNeedsKey(t *testing.T) {
	gen, err := CreateGenerator(&domain.GeneratorSettings{Provider: domain.AIProviderAnthropic})
	require.NoError(t, err)
	assert.Nil(t, gen, "missing API key means not configured")
}

func TestCreateGenerator_Anthropic(t *testing.T) {
	gen, err := CreateGenerator(&domain.GeneratorSettings{
		Provider: domain.AIProviderAnthropic,
		APIKey:   "test-key",
		Model:    "claude-3-5-haiku-latest",
	})
	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, "claude-3-5-haiku-latest", gen.ModelName())
}

func TestCreateGenerator_OllamaNeedsNoKey(t *testing.T) {
	gen, err := CreateGenerator(&domain.GeneratorSettings{Provider: domain.AIProviderOllama})
	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, "llama3.2", gen.ModelName())
}

func TestCreateGeneratorChain_NoneConfigured(t *testing.T) {
	gen, err := CreateGeneratorChain(&domain.GeneratorSettings{}, &domain.GeneratorSettings{})
	require.NoError(t, err)
	assert.Nil(t, gen)
}

func TestCreateGeneratorChain_PrimaryOnly(t *testing.T) {
	gen, err := CreateGeneratorChain(
		&domain.GeneratorSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
		&domain.GeneratorSettings{},
	)
	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, "llama3.2", gen.ModelName())
}

func TestCreateGeneratorChain_PrimaryAndFallback(t *testing.T) {
	gen, err := CreateGeneratorChain(
		&domain.GeneratorSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"},
		&domain.GeneratorSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
	)
	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, "failover(gpt-4o-mini,llama3.2)", gen.ModelName())
}
