package domain

// GlossaryEntry is one bilingual term pair, grouped per market.
// Produced by the tabular extraction pass for consistency checks.
type GlossaryEntry struct {
	// En is the English term.
	En string `json:"en"`

	// Ar is the Arabic term.
	Ar string `json:"ar"`
}

// Glossary groups bilingual entries by market.
type Glossary map[Market][]GlossaryEntry

// TagDefinition maps a cuisine tag to the keywords that suggest it.
// Keyword order is significant: earlier keywords are stronger signals.
type TagDefinition struct {
	// Tag is the canonical tag name.
	Tag string `json:"tag"`

	// Keywords are the trigger terms, in priority order.
	Keywords []string `json:"keywords"`
}
