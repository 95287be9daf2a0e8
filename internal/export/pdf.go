package export

import (
	"github.com/jung-kurt/gofpdf"
	"github.com/nerdneilsfield/go-summarizer-agent/pkg/completion"
)

func renderPDF(result *completion.Result, destPath string) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)

	// Core fonts are cp1252; translate so accented summaries survive.
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.MultiCell(0, 6, tr(result.Summary), "", "L", false)

	return doc.OutputFileAndClose(destPath)
}
