package cli

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/config"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/logger"
	"github.com/nerdneilsfield/go-summarizer-agent/internal/store"
	"github.com/spf13/cobra"
)

var (
	queryLimit       int
	queryURLContains string
	queryStyle       string
)

func newQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List previously stored summaries",
		Args:  cobra.NoArgs,
		RunE:  runQuery,
	}
	cmd.Flags().IntVarP(&queryLimit, "limit", "n", 5, "maximum number of records")
	cmd.Flags().StringVarP(&queryURLContains, "url-contains", "u", "", "only records whose source contains this string")
	cmd.Flags().StringVarP(&queryStyle, "style", "s", "", "only records with this exact style")
	return cmd
}

func runQuery(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if debugMode {
		cfg.Debug = true
	}

	log := logger.New(cfg.Debug)
	defer func() { _ = log.Sync() }()

	db, err := store.Open(cfg.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer db.Close()

	records, err := db.Query(store.Filter{
		Limit:       queryLimit,
		URLContains: queryURLContains,
		Style:       queryStyle,
	})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No summaries found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"ID", "Source", "Language", "Style", "Created", "Summary"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.ID,
			truncateCell(r.SourceID, 48),
			r.Language,
			r.Style,
			r.CreatedAt.Format(time.DateTime),
			truncateCell(r.Summary, 80),
		})
	}
	t.Render()

	return nil
}

func truncateCell(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
