package driving

import (
	"context"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

// IngestService converts source documents into knowledge collections.
type IngestService interface {
	// Ingest walks sourceDir, extracts and classifies sections from every
	// supported document, and writes one JSON collection per topic into
	// outDir.
	Ingest(ctx context.Context, sourceDir, outDir string, mode domain.IngestMode) (*domain.IngestReport, error)
}
