package domain

import "strings"

// MarketPreference selects which market's policy a query is about.
type MarketPreference string

// Available market preferences. PreferAuto lets the ranker decide.
const (
	PreferAuto MarketPreference = "AUTO"
	PreferAE   MarketPreference = "AE"
	PreferJO   MarketPreference = "JO"
	PreferSA   MarketPreference = "SA"
)

// IsValid returns true if the preference is recognised.
func (p MarketPreference) IsValid() bool {
	switch p {
	case PreferAuto, PreferAE, PreferJO, PreferSA:
		return true
	default:
		return false
	}
}

// Market returns the concrete market this preference names.
// ok is false for PreferAuto.
func (p MarketPreference) Market() (market Market, ok bool) {
	switch p {
	case PreferAE, PreferJO, PreferSA:
		return Market(p), true
	default:
		return MarketAll, false
	}
}

// ParseMarketPreference normalises a raw preference string.
// Unknown or empty values default to PreferAuto.
func ParseMarketPreference(s string) MarketPreference {
	p := MarketPreference(strings.ToUpper(strings.TrimSpace(s)))
	if p.IsValid() {
		return p
	}
	return PreferAuto
}

// Query is one question against the corpus. Ephemeral, one per request.
type Query struct {
	// Question is the free-text question.
	Question string

	// Preference is the requested market scope.
	Preference MarketPreference

	// ForceOffline bypasses the external generation step entirely,
	// producing the synthesized answer deterministically.
	ForceOffline bool
}

// RankedChunk pairs a chunk with its score for one query.
// Recomputed per query; never persisted.
type RankedChunk struct {
	Chunk KnowledgeChunk
	Score float64
}

// Answer is the final response for a query.
type Answer struct {
	// Text is the answer body. Never empty; worst case it is the
	// fixed refusal text.
	Text string

	// Sources are the top-ranked chunks the answer is grounded in,
	// at most three. Empty when the corpus had nothing relevant.
	Sources []KnowledgeChunk

	// Generated is true when Text came from the external generation
	// step rather than the synthesized fallback.
	Generated bool
}

// RefusalAnswer is the fixed response used whenever the corpus holds
// nothing relevant to a question.
const RefusalAnswer = "I don't have this in the SOP."
