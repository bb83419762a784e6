package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"m3urepo/internal/catalog"
	"m3urepo/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var issueFlag string
	var statusFlags []string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent ingest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := history.Filter{Issue: strings.TrimPrefix(strings.TrimSpace(issueFlag), "#"), Limit: limit}
			if strings.TrimSpace(kindFlag) != "" {
				kind, err := catalog.ParseKind(kindFlag)
				if err != nil {
					return err
				}
				filter.Kind = kind.String()
			}
			for _, value := range statusFlags {
				status, err := history.ParseStatus(value)
				if err != nil {
					return err
				}
				filter.Statuses = append(filter.Statuses, status)
			}

			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("history is disabled in the configuration")
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, historyJSON(runs))
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No ingest runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				outcome := string(run.Status)
				if run.Error != "" {
					outcome = outcome + ": " + truncate(run.Error, 60)
				}
				rows = append(rows, []string{
					run.CreatedAt.Local().Format(time.DateTime),
					run.Issue,
					run.Kind,
					run.Slug,
					strconv.Itoa(run.Added),
					strconv.Itoa(run.Skipped),
					outcome,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Issue", "Kind", "Slug", "Added", "Skipped", "Outcome"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			parts := make([]string, 0, len(counts))
			for _, status := range history.AllStatuses() {
				parts = append(parts, fmt.Sprintf("%s %d", status, counts[status]))
			}
			fmt.Fprintf(out, "Totals: %s\n", strings.Join(parts, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "Only show runs for movies or series")
	cmd.Flags().StringVar(&issueFlag, "issue", "", "Only show runs for an issue number")
	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Only show runs with these statuses (succeeded, rejected, failed)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")
	return cmd
}

type historyEntry struct {
	RunID     string `json:"run_id"`
	Issue     string `json:"issue,omitempty"`
	Kind      string `json:"kind"`
	Slug      string `json:"slug,omitempty"`
	Title     string `json:"title,omitempty"`
	Added     int    `json:"added"`
	Skipped   int    `json:"skipped"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

func historyJSON(runs []history.Run) []historyEntry {
	out := make([]historyEntry, 0, len(runs))
	for _, run := range runs {
		out = append(out, historyEntry{
			RunID:     run.RunID,
			Issue:     run.Issue,
			Kind:      run.Kind,
			Slug:      run.Slug,
			Title:     run.Title,
			Added:     run.Added,
			Skipped:   run.Skipped,
			Status:    string(run.Status),
			Error:     run.Error,
			CreatedAt: run.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
