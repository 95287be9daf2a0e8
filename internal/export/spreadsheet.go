package export

import (
	"fmt"

	"github.com/nerdneilsfield/go-summarizer-agent/pkg/completion"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	// chunkWidth is the fixed line width summaries are split at, one
	// row per chunk.
	chunkWidth = 100
)

func renderSpreadsheet(result *completion.Result, destPath string) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := wb.SetCellValue(summarySheet, "A1", "Article Summary"); err != nil {
		return err
	}

	for i, chunk := range chunkRunes(result.Summary, chunkWidth) {
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetCellValue(summarySheet, cell, chunk); err != nil {
			return err
		}
	}

	return wb.SaveAs(destPath)
}

// chunkRunes splits s into slices of at most width runes. Newlines are
// ordinary characters; the split is purely width-based.
func chunkRunes(s string, width int) []string {
	runes := []rune(s)
	var chunks []string
	for len(runes) > 0 {
		n := width
		if n > len(runes) {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
