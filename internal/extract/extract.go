// Package extract turns a classified source into canonical plain text.
// One adapter per source kind; the set is closed and dispatched by
// Descriptor.Kind so an unhandled kind is a programming error, not a
// runtime surprise.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/nerdneilsfield/go-summarizer-agent/internal/source"
	"go.uber.org/zap"
)

var (
	// ErrEmptyContent marks a source that parsed cleanly but yielded no
	// usable text. Whitespace-only output counts as empty.
	ErrEmptyContent = errors.New("document contained no extractable text")
	// ErrNotFound marks a source whose backing file or URL does not exist.
	ErrNotFound = errors.New("source not found")
	// ErrUnsupportedKind marks a descriptor no adapter accepts.
	ErrUnsupportedKind = errors.New("unsupported source kind")
)

// Document is the canonical plain-text form of one source.
type Document struct {
	// Text is the extracted content. Never empty: adapters fail with
	// ErrEmptyContent instead of returning a blank document.
	Text string
	// Origin is the descriptor the text came from.
	Origin source.Descriptor
	// CharCount counts runes in Text.
	CharCount int
}

func newDocument(text string, origin source.Descriptor) (*Document, error) {
	if !hasPrintable(text) {
		return nil, ErrEmptyContent
	}
	text = strings.TrimSpace(text)
	return &Document{
		Text:      text,
		Origin:    origin,
		CharCount: len([]rune(text)),
	}, nil
}

func hasPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && !unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// Service routes a descriptor to the adapter for its kind.
type Service struct {
	remote      *RemoteExtractor
	pdf         *PDFExtractor
	word        *WordExtractor
	spreadsheet *SpreadsheetExtractor
	logger      *zap.Logger
}

// NewService wires one adapter per supported kind. fetchTimeout bounds
// the remote document fetch only.
func NewService(fetchTimeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		remote:      NewRemoteExtractor(fetchTimeout, logger),
		pdf:         NewPDFExtractor(logger),
		word:        NewWordExtractor(logger),
		spreadsheet: NewSpreadsheetExtractor(logger),
		logger:      logger,
	}
}

// Extract produces the canonical document for the descriptor. The
// returned error wraps the per-adapter cause; callers tag it with the
// extraction stage.
func (s *Service) Extract(ctx context.Context, desc source.Descriptor) (*Document, error) {
	start := time.Now()

	var (
		doc *Document
		err error
	)
	switch desc.Kind {
	case source.RemoteDocument:
		doc, err = s.remote.Extract(ctx, desc)
	case source.LocalPDF:
		doc, err = s.pdf.Extract(ctx, desc)
	case source.LocalWordDoc:
		doc, err = s.word.Extract(ctx, desc)
	case source.LocalSpreadsheet:
		doc, err = s.spreadsheet.Extract(ctx, desc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, desc.Kind)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("extracted document",
		zap.String("kind", desc.Kind.String()),
		zap.String("source", desc.Identifier()),
		zap.Int("chars", doc.CharCount),
		zap.Duration("took", time.Since(start)))

	return doc, nil
}
