// Package ooxml holds the minimal WordprocessingML surface the
// pipeline needs: pulling paragraph text out of a .docx package and
// writing a plain flowing-body .docx back out.
package ooxml

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// documentPath is the fixed location of the main part inside the
// OOXML package.
const documentPath = "word/document.xml"

// Document mirrors the parts of word/document.xml we read. Element
// names match on local name, so the w: namespace prefix is irrelevant
// to decoding.
type Document struct {
	XMLName xml.Name `xml:"document"`
	Body    Body     `xml:"body"`
}

// Body holds the paragraphs in stored order.
type Body struct {
	Paragraphs []Paragraph `xml:"p"`
}

// Paragraph is one w:p element.
type Paragraph struct {
	Runs []Run `xml:"r"`
}

// Run is one w:r element. Only text, tabs, and breaks carry content;
// drawings and other embedded objects are skipped.
type Run struct {
	Text  *Text  `xml:"t"`
	Tab   *Tab   `xml:"tab"`
	Break *Break `xml:"br"`
}

// Text is one w:t element.
type Text struct {
	Space string `xml:"http://www.w3.org/XML/1998/namespace space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

// Tab is one w:tab element.
type Tab struct{}

// Break is one w:br element.
type Break struct {
	Type string `xml:"type,attr,omitempty"`
}

// PlainText flattens a paragraph's runs into one string.
func (p Paragraph) PlainText() string {
	var b strings.Builder
	for _, run := range p.Runs {
		switch {
		case run.Text != nil:
			b.WriteString(run.Text.Text)
		case run.Tab != nil:
			b.WriteByte('\t')
		case run.Break != nil:
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ReadDocument opens a .docx package and decodes its main part.
func ReadDocument(path string) (*Document, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx package: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != documentPath {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", documentPath, err)
		}
		defer rc.Close()

		var doc Document
		if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPath, err)
		}
		return &doc, nil
	}

	return nil, fmt.Errorf("package has no %s", documentPath)
}

// ParagraphTexts returns each paragraph's flattened text in document
// order, including empty paragraphs so callers see the stored layout.
func (d *Document) ParagraphTexts() []string {
	texts := make([]string, 0, len(d.Body.Paragraphs))
	for _, p := range d.Body.Paragraphs {
		texts = append(texts, p.PlainText())
	}
	return texts
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// WriteDocument writes a minimal .docx package containing the given
// paragraphs as an unstyled flowing body.
func WriteDocument(w io.Writer, paragraphs []string) error {
	archive := zip.NewWriter(w)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{documentPath, documentXML(paragraphs)},
	}

	for _, part := range parts {
		f, err := archive.Create(part.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := io.WriteString(f, part.body); err != nil {
			return fmt.Errorf("write %s: %w", part.name, err)
		}
	}

	return archive.Close()
}

func documentXML(paragraphs []string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&b, []byte(p)); err != nil {
			// strings.Builder never returns a write error.
			panic(err)
		}
		b.WriteString(`</w:t></w:r></w:p>`)
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}
