package export

import (
	"os"
	"strings"

	"github.com/nerdneilsfield/go-summarizer-agent/internal/ooxml"
	"github.com/nerdneilsfield/go-summarizer-agent/pkg/completion"
)

func renderWord(result *completion.Result, destPath string) error {
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// One paragraph per summary line keeps the round trip with the
	// word extractor lossless.
	paragraphs := strings.Split(result.Summary, "\n")
	if err := ooxml.WriteDocument(f, paragraphs); err != nil {
		return err
	}
	return f.Close()
}
