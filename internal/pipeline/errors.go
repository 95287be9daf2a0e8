package pipeline

import "errors"

// One sentinel per failing stage. Every error leaving Run wraps exactly
// one of these so callers can name the stage in the exit message.
var (
	// ErrSourceUnsupported: classification found no known source kind.
	ErrSourceUnsupported = errors.New("source unsupported")
	// ErrExtractionFailed: no usable text was obtained. The wrapped
	// cause carries the sub-reason (network, not-found, empty content).
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrSummarizationFailed: retries exhausted or a fatal credential
	// or configuration problem.
	ErrSummarizationFailed = errors.New("summarization failed")
	// ErrExportFormatUnsupported: destination extension no renderer
	// accepts; detected before any extraction work.
	ErrExportFormatUnsupported = errors.New("export format unsupported")
	// ErrRenderFailed: renderer ran but produced no valid artifact.
	ErrRenderFailed = errors.New("render failed")
	// ErrPersistenceFailed: record store write error.
	ErrPersistenceFailed = errors.New("persistence failed")
)
