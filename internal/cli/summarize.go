package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nerdneilsfield/go-summarizer-agent/internal/config"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/export"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/extract"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/logger"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/pipeline"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/store"
	"github.com/nerdneilsfield/go-summarizer-agent/pkg/completion"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	targetLanguage string
	targetStyle    string
	outputPath     string
	saveToDB       bool
)

func addSummarizeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&targetLanguage, "language", "l", "", "summary language (default from config)")
	cmd.Flags().StringVarP(&targetStyle, "style", "s", "", "summary style (default from config)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file; format chosen by extension (.txt, .pdf, .docx, .xlsx, .png, .jpg)")
	cmd.Flags().BoolVar(&saveToDB, "save-to-db", false, "persist the summary to the record store")
}

func newSummarizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <source>...",
		Short: "Summarize one or more URLs or local documents",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSummarize,
	}
	addSummarizeFlags(cmd)
	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if debugMode {
		cfg.Debug = true
	}

	log := logger.New(cfg.Debug)
	defer func() { _ = log.Sync() }()

	language := cfg.DefaultLanguage
	if targetLanguage != "" {
		language = targetLanguage
	}
	style := cfg.DefaultStyle
	if targetStyle != "" {
		style = targetStyle
	}

	// Resolve the output format before anything else touches the
	// network or filesystem.
	if outputPath != "" {
		if _, err := export.DetectFormat(outputPath); err != nil {
			return err
		}
	}

	var recorder pipeline.Recorder
	if saveToDB {
		db, err := store.Open(cfg.DatabasePath, log)
		if err != nil {
			return fmt.Errorf("open record store: %w", err)
		}
		defer db.Close()
		recorder = db
	}

	pipe := pipeline.New(
		extract.NewService(cfg.FetchTimeout, log),
		completion.NewClient(completion.Config{
			APIKey:         cfg.APIKey,
			APIEndpoint:    cfg.APIEndpoint,
			Model:          cfg.Model,
			Temperature:    cfg.Temperature,
			MaxTokens:      cfg.MaxTokens,
			MaxInputChars:  cfg.MaxInputChars,
			RequestTimeout: cfg.RequestTimeout,
			Retry: completion.Schedule{
				MaxAttempts:   cfg.MaxAttempts,
				InitialDelay:  cfg.InitialDelay,
				MaxDelay:      cfg.MaxDelay,
				BackoffFactor: cfg.BackoffFactor,
			},
		}, log),
		export.NewService(log),
		recorder,
		log,
	)

	var failures []error
	for i, src := range args {
		req := pipeline.Request{
			Source:     src,
			Language:   language,
			Style:      style,
			OutputPath: numberedOutput(outputPath, i, len(args)),
			Persist:    saveToDB,
		}

		outcome, err := pipe.Run(cmd.Context(), req)
		if err != nil {
			log.Error("summarization request failed",
				zap.String("source", src),
				zap.Error(err))
			failures = append(failures, fmt.Errorf("%s: %w", src, err))
			if outcome == nil || outcome.Result == nil {
				continue
			}
			// A summary was produced even though a side effect failed;
			// still show it.
		}

		if outcome.OutputPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Summary written to %s\n", outcome.OutputPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Result.Summary)
		}
	}

	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	return nil
}

// numberedOutput derives the per-source destination when several
// sources share one output flag: base.ext becomes base_0.ext,
// base_1.ext, and so on.
func numberedOutput(path string, index, total int) string {
	if path == "" || total == 1 {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%d%s", base, index, ext)
}
