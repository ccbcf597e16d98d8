package domain

import "strings"

// IngestMode selects the chunk size profile for an ingestion run.
type IngestMode string

// Available ingest modes. Smart favours retrieval-sized chunks; full
// keeps larger archival chunks.
const (
	ModeSmart IngestMode = "smart"
	ModeFull  IngestMode = "full"
)

// ParseIngestMode normalises a raw mode string.
// Unknown or empty values default to ModeSmart.
func ParseIngestMode(s string) IngestMode {
	if IngestMode(strings.ToLower(strings.TrimSpace(s))) == ModeFull {
		return ModeFull
	}
	return ModeSmart
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// FilesScanned counts every regular file seen under the source dir.
	FilesScanned int

	// FilesExtracted counts files an extractor handled successfully.
	FilesExtracted int

	// FilesSkipped counts unsupported or failed files.
	FilesSkipped int

	// Chunks is the total knowledge chunk count across topics.
	Chunks int

	// ByTopic breaks the chunk count down per topic.
	ByTopic map[Topic]int

	// GlossaryEntries counts bilingual term pairs across markets.
	GlossaryEntries int

	// TagDefinitions counts cuisine tag definitions.
	TagDefinitions int

	// OutputFiles lists the collection files written, in write order.
	OutputFiles []string
}
