package export

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerdneilsfield/go-summarizer-agent/internal/ooxml"
	"github.com/nerdneilsfield/go-summarizer-agent/pkg/completion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

func testResult(summary string) *completion.Result {
	return &completion.Result{
		Summary: summary,
		Request: completion.Request{
			Language: "Portuguese",
			Style:    "a concise paragraph",
			SourceID: "https://example.com/article",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		ok     bool
	}{
		{"out.txt", FormatText, true},
		{"out.pdf", FormatPDF, true},
		{"out.docx", FormatWord, true},
		{"out.xlsx", FormatSpreadsheet, true},
		{"out.png", FormatPNG, true},
		{"out.jpg", FormatJPEG, true},
		{"out.jpeg", FormatJPEG, true},
		{"OUT.TXT", FormatText, true},
		{"summary.csv", 0, false},
		{"summary.html", 0, false},
		{"noextension", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, err := DetectFormat(tt.path)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
		})
	}
}

func TestRenderUnsupportedExtension(t *testing.T) {
	s := NewService(zap.NewNop())
	err := s.Render(testResult("text"), filepath.Join(t.TempDir(), "summary.csv"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderTextRoundTrip(t *testing.T) {
	summary := "Parágrafo conciso de resumo.\nSegunda linha."
	dest := filepath.Join(t.TempDir(), "summary.txt")

	s := NewService(zap.NewNop())
	require.NoError(t, s.Render(testResult(summary), dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, summary, string(data))
}

func TestRenderTextCreatesDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "dir", "summary.txt")

	s := NewService(zap.NewNop())
	require.NoError(t, s.Render(testResult("content"), dest))

	_, err := os.Stat(dest)
	assert.NoError(t, err)
}

func TestRenderSpreadsheetRoundTrip(t *testing.T) {
	summary := strings.Repeat("All work and no play makes a dull summary. ", 8)
	dest := filepath.Join(t.TempDir(), "summary.xlsx")

	s := NewService(zap.NewNop())
	require.NoError(t, s.Render(testResult(summary), dest))

	wb, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(summarySheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Article Summary", rows[0][0])

	var rebuilt strings.Builder
	for _, row := range rows[1:] {
		if len(row) > 0 {
			rebuilt.WriteString(row[0])
		}
	}
	assert.Equal(t, summary, rebuilt.String())

	// Every chunk respects the fixed width.
	for _, row := range rows[1:] {
		if len(row) > 0 {
			assert.LessOrEqual(t, len([]rune(row[0])), chunkWidth)
		}
	}
}

func TestRenderWordRoundTrip(t *testing.T) {
	summary := "First line of the summary.\nSecond line."
	dest := filepath.Join(t.TempDir(), "summary.docx")

	s := NewService(zap.NewNop())
	require.NoError(t, s.Render(testResult(summary), dest))

	doc, err := ooxml.ReadDocument(dest)
	require.NoError(t, err)
	assert.Equal(t, summary, strings.Join(doc.ParagraphTexts(), "\n"))
}

func TestRenderPDFProducesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "summary.pdf")

	s := NewService(zap.NewNop())
	require.NoError(t, s.Render(testResult("Resumo em português, com acentuação."), dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestRenderImageFormats(t *testing.T) {
	summary := strings.Repeat("wrapped raster summary text ", 20)

	for _, name := range []string{"summary.png", "summary.jpg"} {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), name)

			s := NewService(zap.NewNop())
			require.NoError(t, s.Render(testResult(summary), dest))

			f, err := os.Open(dest)
			require.NoError(t, err)
			defer f.Close()

			img, kind, err := image.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, imageWidth, img.Bounds().Dx())
			if name == "summary.png" {
				assert.Equal(t, "png", kind)
			} else {
				assert.Equal(t, "jpeg", kind)
			}
		})
	}
}

func TestChunkRunes(t *testing.T) {
	assert.Equal(t, []string{"abc", "def", "g"}, chunkRunes("abcdefg", 3))
	assert.Equal(t, []string{"ab"}, chunkRunes("ab", 10))
	assert.Nil(t, chunkRunes("", 3))
}

func TestWrapTextSingleLongWord(t *testing.T) {
	lines := wrapText("antidisestablishmentarianism", basicfont.Face7x13, 10)
	assert.Equal(t, []string{"antidisestablishmentarianism"}, lines)
}
