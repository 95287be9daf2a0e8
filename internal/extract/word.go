package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nerdneilsfield/go-summarizer-agent/internal/ooxml"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/source"
	"go.uber.org/zap"
)

// WordExtractor reads paragraph text out of a word-processor document.
type WordExtractor struct {
	logger *zap.Logger
}

func NewWordExtractor(logger *zap.Logger) *WordExtractor {
	return &WordExtractor{logger: logger}
}

// Extract joins paragraph texts in document order, one line per
// paragraph, discarding all styling. Legacy binary .doc files are not
// OOXML packages and surface here as an open failure.
func (e *WordExtractor) Extract(ctx context.Context, desc source.Descriptor) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := ooxml.ReadDocument(desc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %q: %w", desc.Path, ErrNotFound)
		}
		return nil, fmt.Errorf("read %q: %w", desc.Path, err)
	}

	paragraphs := doc.ParagraphTexts()
	e.logger.Debug("parsed word document",
		zap.String("path", desc.Path),
		zap.Int("paragraphs", len(paragraphs)))

	return newDocument(strings.Join(paragraphs, "\n"), desc)
}
