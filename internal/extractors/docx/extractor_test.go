package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	w.Close()
	return buf.Bytes()
}

// para builds a document.xml paragraph with optional style.
func para(style, text string) string {
	props := ""
	if style != "" {
		props = `<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`
	}
	return `<w:p>` + props + `<w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func wrapDoc(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body></w:document>`
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.Equal(t, []string{".docx"}, extractor.SupportedExtensions())
}

func TestExtract_SplitsAtTopLevelHeadings(t *testing.T) {
	doc := wrapDoc(
		para("Heading1", "Item Naming") +
			para("", "Names must use Title Case.") +
			para("Heading2", "Exceptions") +
			para("", "Brand names keep their official casing.") +
			para("Heading1", "Descriptions") +
			para("", "Descriptions stay under two sentences."),
	)

	result, err := New().Extract(context.Background(), &driven.RawDocument{
		Path:    "style_guide.docx",
		Content: createTestDOCX(doc),
	})
	require.NoError(t, err)
	require.Len(t, result.Sections, 2)

	assert.Equal(t, "Item Naming", result.Sections[0].Title)
	assert.Contains(t, result.Sections[0].Text, "Names must use Title Case.")
	// Sub-heading stays inside the section body with its marker.
	assert.Contains(t, result.Sections[0].Text, "## Exceptions")

	assert.Equal(t, "Descriptions", result.Sections[1].Title)
	assert.Contains(t, result.Sections[1].Text, "under two sentences")
}

func TestExtract_NoHeadingsFallsBackToWholeDocument(t *testing.T) {
	doc := wrapDoc(
		para("", "First paragraph of plain policy text.") +
			para("", "Second paragraph of plain policy text."),
	)

	result, err := New().Extract(context.Background(), &driven.RawDocument{
		Path:    "zones/jordan_delivery_rules.docx",
		Content: createTestDOCX(doc),
	})
	require.NoError(t, err)
	require.Len(t, result.Sections, 1)

	assert.Equal(t, "jordan delivery rules", result.Sections[0].Title)
	assert.Contains(t, result.Sections[0].Text, "First paragraph")
	assert.Contains(t, result.Sections[0].Text, "Second paragraph")
}

func TestExtract_PreambleFoldsIntoGeneratedSection(t *testing.T) {
	doc := wrapDoc(
		para("", "Document owner: operations team.") +
			para("Heading1", "Zones") +
			para("", "Each store is assigned a single zone."),
	)

	result, err := New().Extract(context.Background(), &driven.RawDocument{
		Path:    "zones.docx",
		Content: createTestDOCX(doc),
	})
	require.NoError(t, err)
	require.Len(t, result.Sections, 2)

	assert.Equal(t, "Section 1", result.Sections[0].Title)
	assert.Contains(t, result.Sections[0].Text, "Document owner")
	assert.Equal(t, "Zones", result.Sections[1].Title)
}

func TestExtract_ListMarkersPreserved(t *testing.T) {
	doc := wrapDoc(
		para("Heading1", "Checklist") +
			`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr><w:r><w:t>Verify the trade license.</w:t></w:r></w:p>`,
	)

	result, err := New().Extract(context.Background(), &driven.RawDocument{
		Path:    "checklist.docx",
		Content: createTestDOCX(doc),
	})
	require.NoError(t, err)
	require.Len(t, result.Sections, 1)
	assert.Contains(t, result.Sections[0].Text, "- Verify the trade license.")
}

func TestExtract_NilDocument(t *testing.T) {
	result, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestExtract_InvalidZip(t *testing.T) {
	result, err := New().Extract(context.Background(), &driven.RawDocument{
		Path:    "broken.docx",
		Content: []byte("not a zip archive"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		level int
		ok    bool
	}{
		{"Heading1", 1, true},
		{"Heading2", 2, true},
		{"Heading", 1, true},
		{"Title", 1, true},
		{"BodyText", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		level, ok := headingLevel(tt.style)
		assert.Equal(t, tt.ok, ok, tt.style)
		assert.Equal(t, tt.level, level, tt.style)
	}
}
