package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/source"
	"go.uber.org/zap"
)

// PDFExtractor pulls the text layer out of a PDF, page by page.
type PDFExtractor struct {
	logger *zap.Logger
}

func NewPDFExtractor(logger *zap.Logger) *PDFExtractor {
	return &PDFExtractor{logger: logger}
}

// Extract concatenates per-page text in page order. A page without a
// text layer (a scanned image, typically) contributes an empty segment
// and extraction continues; only a document empty across all pages
// fails.
func (e *PDFExtractor) Extract(ctx context.Context, desc source.Descriptor) (*Document, error) {
	f, reader, err := pdf.Open(desc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %q: %w", desc.Path, ErrNotFound)
		}
		return nil, fmt.Errorf("open %q: %w", desc.Path, err)
	}
	defer f.Close()

	var pages []string
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("page yielded no text",
				zap.String("path", desc.Path),
				zap.Int("page", i),
				zap.Error(err))
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return newDocument(strings.Join(pages, "\n"), desc)
}
