// Package extractors groups the per-format section extractors.
//
// Each sub-package converts one raw document format into ordered
// sections (or, for tabular files, glossary pairs and tag definitions):
//
//   - docx: outline documents, split at top-level headings
//   - pptx: slide decks, one section per slide
//   - csvx: tabular files routed to glossary or tag output by filename
//
// Extractors are selected by file extension. A document that cannot be
// parsed is skipped with a logged warning; ingestion continues with the
// remaining documents.
package extractors
