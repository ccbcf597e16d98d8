package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.SectionExtractor = (*Extractor)(nil)

// Extractor handles slide decks (PPTX).
// Each slide becomes one section titled "Slide N", with all text runs
// concatenated into bullet-prefixed lines in slide order.
type Extractor struct{}

// New creates a new PPTX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pptx"}
}

// slidePattern matches slide entries inside the PPTX container.
var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Extract converts a PPTX deck into one section per slide.
func (e *Extractor) Extract(_ context.Context, raw *driven.RawDocument) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	// Collect slide files keyed by their numeric index. Zip entry
	// order is not slide order.
	type slideFile struct {
		index int
		file  *zip.File
	}
	var slides []slideFile
	for _, file := range reader.File {
		m := slidePattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideFile{index: index, file: file})
	}

	sort.Slice(slides, func(i, j int) bool {
		return slides[i].index < slides[j].index
	})

	var sections []domain.Section
	for _, slide := range slides {
		rc, err := slide.file.Open()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}

		text := renderSlideText(content)
		if text == "" {
			continue
		}

		sections = append(sections, domain.Section{
			Title: fmt.Sprintf("Slide %d", slide.index),
			Text:  text,
		})
	}

	return &driven.ExtractResult{Sections: sections}, nil
}

// renderSlideText walks a slide's XML and joins the text runs of each
// paragraph into one bullet-prefixed line.
func renderSlideText(content []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var lines []string
	var line strings.Builder
	inText := false
	bodyDepth := 0

	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			lines = append(lines, "- "+s)
		}
		line.Reset()
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "txBody":
				bodyDepth++
			case "p":
				if bodyDepth > 0 {
					flush()
				}
			case "t":
				if bodyDepth > 0 {
					inText = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "txBody":
				flush()
				bodyDepth--
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	flush()

	return strings.Join(lines, "\n")
}
