// Package export serializes a produced summary into the artifact
// format named by the destination path's extension. The format set is
// closed; selection happens before any pipeline work so an unsupported
// extension fails the invocation immediately.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nerdneilsfield/go-summarizer-agent/pkg/completion"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat marks a destination extension no renderer
// accepts.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format enumerates the supported artifact formats.
type Format int

const (
	FormatText Format = iota
	FormatPDF
	FormatWord
	FormatSpreadsheet
	FormatPNG
	FormatJPEG
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatPDF:
		return "pdf"
	case FormatWord:
		return "docx"
	case FormatSpreadsheet:
		return "xlsx"
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// DetectFormat maps a destination path to its format. Callers run this
// before extraction or summarization to fail fast on a bad invocation.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatText, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatWord, nil
	case ".xlsx":
		return FormatSpreadsheet, nil
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Service renders summaries to files.
type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Render writes the summary to destPath in the format its extension
// names, creating the destination directory when needed.
func (s *Service) Render(result *completion.Result, destPath string) error {
	format, err := DetectFormat(destPath)
	if err != nil {
		return err
	}

	if err := ensureDir(destPath); err != nil {
		return err
	}

	start := time.Now()
	switch format {
	case FormatText:
		err = renderText(result, destPath)
	case FormatPDF:
		err = renderPDF(result, destPath)
	case FormatWord:
		err = renderWord(result, destPath)
	case FormatSpreadsheet:
		err = renderSpreadsheet(result, destPath)
	case FormatPNG, FormatJPEG:
		err = renderImage(result, destPath, format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	s.logger.Info("summary rendered",
		zap.String("format", format.String()),
		zap.String("path", destPath),
		zap.Duration("took", time.Since(start)))

	return nil
}

func ensureDir(destPath string) error {
	dir := filepath.Dir(destPath)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}
	return nil
}
