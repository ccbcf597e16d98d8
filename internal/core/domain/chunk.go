package domain

import "strings"

// Market identifies the regional policy scope of a chunk.
type Market string

// Known markets. MarketAll marks market-agnostic policy text.
const (
	MarketAE  Market = "AE"
	MarketJO  Market = "JO"
	MarketSA  Market = "SA"
	MarketAll Market = "ALL"
)

// IsValid returns true if the market is recognised.
func (m Market) IsValid() bool {
	switch m {
	case MarketAE, MarketJO, MarketSA, MarketAll:
		return true
	default:
		return false
	}
}

// ParseMarket normalises a raw market string.
// Unknown or empty values default to MarketAll.
func ParseMarket(s string) Market {
	m := Market(strings.ToUpper(strings.TrimSpace(s)))
	if m.IsValid() {
		return m
	}
	return MarketAll
}

// Topic is the coarse subject label for a chunk or query.
type Topic string

// Known topics. TopicMisc is the catch-all default.
const (
	TopicCompany Topic = "company"
	TopicTags    Topic = "tags"
	TopicWriting Topic = "writing"
	TopicImages  Topic = "images"
	TopicZones   Topic = "zones"
	TopicMisc    Topic = "misc"
)

// Topics lists all known topics in a fixed order.
// The ingest step writes one collection file per topic in this order.
func Topics() []Topic {
	return []Topic{TopicCompany, TopicTags, TopicWriting, TopicImages, TopicZones, TopicMisc}
}

// IsValid returns true if the topic is recognised.
func (t Topic) IsValid() bool {
	switch t {
	case TopicCompany, TopicTags, TopicWriting, TopicImages, TopicZones, TopicMisc:
		return true
	default:
		return false
	}
}

// ParseTopic normalises a raw topic string.
// Unknown or empty values default to TopicMisc.
func ParseTopic(s string) Topic {
	t := Topic(strings.ToLower(strings.TrimSpace(s)))
	if t.IsValid() {
		return t
	}
	return TopicMisc
}

// Section is an ordered unit of extracted document content.
// Sections are produced transiently during ingestion and are
// never persisted directly.
type Section struct {
	// Title is the heading or generated label for this section.
	Title string

	// Text is the extracted body text.
	Text string
}

// KnowledgeChunk is the canonical unit of retrieval: one classified,
// size-bounded fragment of policy text.
type KnowledgeChunk struct {
	// ID is a load-time handle for the chunk. It is not persisted.
	ID string `json:"-"`

	// Title is the human-readable title. Defaults to the source
	// filename when the document provides none.
	Title string `json:"title"`

	// Market is the regional scope. Defaults to MarketAll.
	Market Market `json:"market"`

	// Topic is the subject label. Defaults to TopicMisc.
	Topic Topic `json:"topic"`

	// Text is the chunk content. Non-empty; at most the configured
	// cap except when a single sentence alone exceeds it.
	Text string `json:"text"`
}
