package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/store"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Inspect inference backend usage events",
}

// openUsageRepo opens the store for the usage subcommands, which need it
// even when logging is disabled in the config.
func openUsageRepo(cmd *cobra.Command) (*store.Store, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.Store.Enabled = true
	return openStore(cmd, cfg)
}

var usageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent usage events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")
		since, _ := cmd.Flags().GetDuration("since")

		s, err := openUsageRepo(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, Purpose: purpose, FailedOnly: failed}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := s.EventRepo().QueryUsage(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		printUsageEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

func printUsageEvents(w io.Writer, events []store.UsageEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No usage events found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-12s  %-32s  %-5s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Provider", "Model", "Seqs", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 108))

	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗ " + truncate(e.ErrorMessage, 40)
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-12s  %-32s  %-5s  %-6d  %-6d  %-7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Provider, 12),
			truncate(e.Model, 32),
			fmt.Sprintf("%d/%d", e.SequencesReturned, e.SequencesRequested),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

var usageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated usage by purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openUsageRepo(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.EventRepo().UsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		printUsageStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func printUsageStats(w io.Writer, stats []store.UsageStats) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No usage recorded yet.")
		return
	}

	fmt.Fprintln(w, "Usage by Purpose")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%-16s  %6s  %6s  %9s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Failed", "Questions", "Input", "Output", "Avg Ms")
	fmt.Fprintln(w, strings.Repeat("─", 80))

	var totalCalls, totalFailed, totalSeqs, totalIn, totalOut int
	for _, st := range stats {
		fmt.Fprintf(w, "%-16s  %6d  %6d  %9d  %10d  %10d  %8d\n",
			st.Purpose, st.Calls, st.Failures, st.Sequences, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
		totalCalls += st.Calls
		totalFailed += st.Failures
		totalSeqs += st.Sequences
		totalIn += st.InputTokens
		totalOut += st.OutputTokens
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%-16s  %6d  %6d  %9d  %10d  %10d\n",
		"TOTAL", totalCalls, totalFailed, totalSeqs, totalIn, totalOut)
}

var usagePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent usage events",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative, got %d", keep)
		}

		s, err := openUsageRepo(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.EventRepo().Prune(cmd.Context(), keep)
		if err != nil {
			return fmt.Errorf("prune events: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d event(s).\n", n)
		return nil
	},
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func init() {
	usageListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	usageListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. question-gen)")
	usageListCmd.Flags().Bool("failed", false, "Only show failed requests")
	usageListCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 24h)")

	usagePruneCmd.Flags().Int("keep", 1000, "Number of most recent events to keep")

	usageCmd.AddCommand(usageListCmd)
	usageCmd.AddCommand(usageStatsCmd)
	usageCmd.AddCommand(usagePruneCmd)
}
