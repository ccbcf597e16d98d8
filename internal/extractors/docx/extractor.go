package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.SectionExtractor = (*Extractor)(nil)

// Extractor handles outline documents (DOCX).
// The body is converted to a structured text form that preserves
// heading and list markers, then split into sections at each
// top-level heading.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".docx"}
}

// Extract converts a DOCX document into ordered sections.
func (e *Extractor) Extract(_ context.Context, raw *driven.RawDocument) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	paragraphs, err := extractParagraphs(reader)
	if err != nil {
		return nil, err
	}

	sections := buildSections(paragraphs, raw.Path)
	return &driven.ExtractResult{Sections: sections}, nil
}

// blockKind distinguishes outline roles of a paragraph.
type blockKind int

const (
	blockBody blockKind = iota
	blockHeading
	blockListItem
)

// block is one paragraph with its outline role.
type block struct {
	kind  blockKind
	level int // heading level, 1 = top
	text  string
}

// extractParagraphs reads word/document.xml and flattens it to blocks.
func extractParagraphs(reader *zip.Reader) ([]block, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}

		return parseDocumentXML(content), nil
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
		NumPr *struct{} `xml:"numPr"`
	} `xml:"pPr"`
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML flattens the document XML into outline blocks.
func parseDocumentXML(content []byte) []block {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil
	}

	var blocks []block
	for _, para := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				sb.WriteString(t.Content)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}

		if level, ok := headingLevel(para.Props.Style.Val); ok {
			blocks = append(blocks, block{kind: blockHeading, level: level, text: text})
			continue
		}
		if para.Props.NumPr != nil {
			blocks = append(blocks, block{kind: blockListItem, text: text})
			continue
		}
		blocks = append(blocks, block{kind: blockBody, text: text})
	}

	return blocks
}

// headingLevel maps a paragraph style to its outline level.
// "Title" and "Heading1" are top-level; "HeadingN" keeps level N.
func headingLevel(style string) (level int, ok bool) {
	style = strings.TrimSpace(style)
	if strings.EqualFold(style, "Title") {
		return 1, true
	}
	rest, found := strings.CutPrefix(style, "Heading")
	if !found {
		return 0, false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return 1, true
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// buildSections splits blocks into sections at each top-level heading.
// Sub-headings and list items stay inside the body as marked lines.
// When no headings exist, the whole document becomes one section
// titled after the filename.
func buildSections(blocks []block, path string) []domain.Section {
	hasHeading := false
	for _, b := range blocks {
		if b.kind == blockHeading && b.level == 1 {
			hasHeading = true
			break
		}
	}

	if !hasHeading {
		text := renderBody(blocks)
		if text == "" {
			return nil
		}
		return []domain.Section{{Title: titleFromFilename(path), Text: text}}
	}

	var sections []domain.Section
	var current []block
	currentTitle := ""
	sectionCount := 0

	flush := func() {
		text := renderBody(current)
		if text == "" && currentTitle == "" {
			return
		}
		sectionCount++
		title := currentTitle
		if title == "" {
			title = fmt.Sprintf("Section %d", sectionCount)
		}
		sections = append(sections, domain.Section{Title: title, Text: text})
		current = nil
	}

	started := false
	for _, b := range blocks {
		if b.kind == blockHeading && b.level == 1 {
			if started {
				flush()
			}
			started = true
			currentTitle = b.text
			continue
		}
		if !started {
			// Preamble before the first heading folds into the first section.
			started = true
			currentTitle = ""
		}
		current = append(current, b)
	}
	if started {
		flush()
	}

	return sections
}

// renderBody renders blocks to structured text, keeping sub-heading
// and list markers so downstream filtering can recognise them.
func renderBody(blocks []block) string {
	var lines []string
	for _, b := range blocks {
		switch b.kind {
		case blockHeading:
			lines = append(lines, strings.Repeat("#", b.level)+" "+b.text)
		case blockListItem:
			lines = append(lines, "- "+b.text)
		default:
			lines = append(lines, b.text)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// titleFromFilename derives a readable title from the file path.
func titleFromFilename(path string) string {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
