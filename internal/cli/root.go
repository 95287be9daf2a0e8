// Package cli wires the cobra command surface around the
// summarization pipeline.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	debugMode bool
)

// NewRootCommand builds the root command. Running the root with a
// source argument is shorthand for the summarize subcommand.
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "summarizer",
		Short: "Summarize articles and documents with an AI completion service",
		Long: `summarizer extracts plain text from a web article or a local
document (PDF, DOCX, XLSX), asks a chat-completion service for a
summary in the requested language and style, and prints, persists, or
renders the result (txt, pdf, docx, xlsx, png, jpg).`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runSummarize(cmd, args)
		},
		Args: cobra.ArbitraryArgs,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.summarizer.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	addSummarizeFlags(rootCmd)
	rootCmd.AddCommand(newSummarizeCommand())
	rootCmd.AddCommand(newQueryCommand())

	return rootCmd
}
