package ooxml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocx(t *testing.T, paragraphs []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteDocument(f, paragraphs))
	require.NoError(t, f.Close())
	return path
}

func TestWriteReadRoundTrip(t *testing.T) {
	paragraphs := []string{
		"First paragraph.",
		"Second paragraph with <markup> & entities.",
		"",
		"Última linha com acentuação.",
	}

	path := writeDocx(t, paragraphs)

	doc, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, paragraphs, doc.ParagraphTexts())
}

func TestReadDocumentRejectsNonZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.doc")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

	_, err := ReadDocument(path)
	assert.Error(t, err)
}

func TestReadDocumentMissingFile(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "missing.docx"))
	assert.Error(t, err)
}

func TestParagraphPlainText(t *testing.T) {
	p := Paragraph{Runs: []Run{
		{Text: &Text{Text: "left"}},
		{Tab: &Tab{}},
		{Text: &Text{Text: "right"}},
		{Break: &Break{}},
		{Text: &Text{Text: "below"}},
	}}
	assert.Equal(t, "left\tright\nbelow", p.PlainText())
}
