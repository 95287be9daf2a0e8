package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nerdneilsfield/go-summarizer-agent/internal/source"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// cellDelimiter joins the cells of one row into a text line. Tabs keep
// empty fields visible to the summarizer, preserving column alignment.
const cellDelimiter = "\t"

// SpreadsheetExtractor flattens workbook cells into delimited text.
type SpreadsheetExtractor struct {
	logger *zap.Logger
}

func NewSpreadsheetExtractor(logger *zap.Logger) *SpreadsheetExtractor {
	return &SpreadsheetExtractor{logger: logger}
}

// Extract walks worksheets in stored order and rows in stored order
// within each sheet. Every row becomes one line; empty cells keep
// their delimiter slot.
func (e *SpreadsheetExtractor) Extract(ctx context.Context, desc source.Descriptor) (*Document, error) {
	wb, err := excelize.OpenFile(desc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %q: %w", desc.Path, ErrNotFound)
		}
		return nil, fmt.Errorf("open %q: %w", desc.Path, err)
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil {
			e.logger.Warn("failed to close workbook",
				zap.String("path", desc.Path),
				zap.Error(cerr))
		}
	}()

	var lines []string
	for _, sheet := range wb.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q of %q: %w", sheet, desc.Path, err)
		}
		for _, row := range rows {
			lines = append(lines, strings.Join(row, cellDelimiter))
		}
	}

	return newDocument(strings.Join(lines, "\n"), desc)
}
