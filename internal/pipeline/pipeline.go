// Package pipeline sequences one summarization request:
// classify -> extract -> summarize -> (persist and/or render).
// Each stage either advances or fails the whole invocation; no stage
// substitutes a placeholder result.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerdneilsfield/go-summarizer-agent/internal/export"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/extract"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/source"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/store"
	"github.com/nerdneilsfield/go-summarizer-agent/pkg/completion"
	"go.uber.org/zap"
)

// Extractor produces canonical text from a classified source.
type Extractor interface {
	Extract(ctx context.Context, desc source.Descriptor) (*extract.Document, error)
}

// Summarizer asks the completion service for a summary.
type Summarizer interface {
	Summarize(ctx context.Context, req completion.Request) (*completion.Result, error)
}

// Renderer serializes a result to a destination path.
type Renderer interface {
	Render(result *completion.Result, destPath string) error
}

// Recorder appends one persisted record.
type Recorder interface {
	Append(record store.Record) error
}

// Request is one invocation of the pipeline.
type Request struct {
	// Source is the raw URL or file path.
	Source string
	// Language and Style are forwarded verbatim to the completion
	// service.
	Language string
	Style    string
	// OutputPath, when set, selects the artifact format by extension.
	// Empty means the caller presents the summary itself.
	OutputPath string
	// Persist writes a record on success.
	Persist bool
}

// Outcome is what a finished invocation produced. Result is non-nil
// whenever summarization succeeded, even if a later side effect
// failed.
type Outcome struct {
	Result     *completion.Result
	OutputPath string
}

// Pipeline owns the per-invocation artifact chain. Safe for concurrent
// use only insofar as its collaborators are; each Run works on its own
// artifacts.
type Pipeline struct {
	extractor  Extractor
	summarizer Summarizer
	renderer   Renderer
	recorder   Recorder
	logger     *zap.Logger
}

// New wires the pipeline. recorder may be nil when persistence was not
// requested anywhere.
func New(extractor Extractor, summarizer Summarizer, renderer Renderer, recorder Recorder, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		summarizer: summarizer,
		renderer:   renderer,
		recorder:   recorder,
		logger:     logger,
	}
}

// Run executes one request to completion. On failure the returned
// error wraps the failing stage's sentinel. Persistence and rendering
// are independent side effects of a produced summary: a render failure
// does not stop the persist, but it does fail the invocation.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	// Fail fast on an unusable destination before any real work.
	if req.OutputPath != "" {
		if _, err := export.DetectFormat(req.OutputPath); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExportFormatUnsupported, err)
		}
	}

	desc := source.Classify(req.Source)
	if desc.Kind == source.Unsupported {
		return nil, fmt.Errorf("%w: %q is not a fetchable URL or a readable local document", ErrSourceUnsupported, req.Source)
	}
	p.logger.Debug("source classified",
		zap.String("source", req.Source),
		zap.String("kind", desc.Kind.String()))

	doc, err := p.extractor.Extract(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	result, err := p.summarizer.Summarize(ctx, completion.Request{
		Text:     doc.Text,
		Language: req.Language,
		Style:    req.Style,
		SourceID: desc.Identifier(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSummarizationFailed, err)
	}

	outcome := &Outcome{Result: result}

	// Summarized: side effects below never un-produce the summary.
	var sideEffectErrs []error

	if req.Persist {
		if p.recorder == nil {
			sideEffectErrs = append(sideEffectErrs,
				fmt.Errorf("%w: no record store configured", ErrPersistenceFailed))
		} else if err := p.recorder.Append(store.Record{
			SourceID:  result.Request.SourceID,
			Language:  result.Request.Language,
			Style:     result.Request.Style,
			Summary:   result.Summary,
			CreatedAt: result.CreatedAt,
		}); err != nil {
			sideEffectErrs = append(sideEffectErrs,
				fmt.Errorf("%w: %v", ErrPersistenceFailed, err))
		}
	}

	if req.OutputPath != "" {
		if err := p.renderer.Render(result, req.OutputPath); err != nil {
			sideEffectErrs = append(sideEffectErrs,
				fmt.Errorf("%w: %v", ErrRenderFailed, err))
		} else {
			outcome.OutputPath = req.OutputPath
		}
	}

	if len(sideEffectErrs) > 0 {
		return outcome, errors.Join(sideEffectErrs...)
	}
	return outcome, nil
}
