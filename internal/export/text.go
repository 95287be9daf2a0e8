package export

import (
	"os"

	"github.com/nerdneilsfield/go-summarizer-agent/pkg/completion"
)

func renderText(result *completion.Result, destPath string) error {
	return os.WriteFile(destPath, []byte(result.Summary), 0o644)
}
