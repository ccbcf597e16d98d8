package domain

import "strings"

// AIProvider identifies a generation backend.
type AIProvider string

// Supported generation providers.
const (
	AIProviderAnthropic AIProvider = "anthropic"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderOllama    AIProvider = "ollama"
)

// ParseAIProvider normalises a raw provider string.
// Unknown or empty values return ok=false.
func ParseAIProvider(s string) (provider AIProvider, ok bool) {
	p := AIProvider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case AIProviderAnthropic, AIProviderOpenAI, AIProviderOllama:
		return p, true
	default:
		return "", false
	}
}

// GeneratorSettings configures one generation backend.
type GeneratorSettings struct {
	// Provider selects the backend.
	Provider AIProvider

	// APIKey authenticates cloud providers. Ollama ignores it.
	APIKey string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// Model overrides the provider's default model.
	Model string
}

// IsConfigured reports whether the settings name a usable backend.
// Cloud providers additionally need an API key.
func (s *GeneratorSettings) IsConfigured() bool {
	if s == nil || s.Provider == "" {
		return false
	}
	if s.Provider == AIProviderOllama {
		return true
	}
	return s.APIKey != ""
}

// Settings holds the full application configuration.
type Settings struct {
	// KnowledgeDirs are the collection directories, in priority order.
	KnowledgeDirs []string

	// ChunkCap overrides the ingest chunk character cap when positive.
	ChunkCap int

	// Generator is the primary generation backend; nil provider means
	// answers are always synthesized offline.
	Generator GeneratorSettings

	// Fallback is an optional secondary backend tried when the
	// primary fails.
	Fallback GeneratorSettings

	// GenerationBudget caps external generation calls per minute.
	// Zero disables generation; negative means unset, keeping the
	// built-in default.
	GenerationBudget int

	// MinScore overrides the relevance refusal threshold when positive.
	MinScore float64
}
