package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"m3urepo/internal/catalog"
	"m3urepo/internal/ingest"
)

type ingestOptions struct {
	issue    string
	body     string
	bodyFile string
	json     bool
}

func newIngestCommand(ctx *commandContext) *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Merge an issue submission into the catalog",
	}
	ingestCmd.AddCommand(newIngestKindCommand(ctx, catalog.Movies, "movie", "Ingest a movie submission"))
	ingestCmd.AddCommand(newIngestKindCommand(ctx, catalog.Series, "series", "Ingest a TV series submission"))
	return ingestCmd
}

func newIngestKindCommand(ctx *commandContext, kind catalog.Kind, use, short string) *cobra.Command {
	var opts ingestOptions

	long := short + ".\n\nThe issue body is read from --body, --body-file, or standard input, " +
		"in that order of preference."

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readIssueBody(cmd.InOrStdin(), opts)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, logger, err := ctx.catalogDir()
			if err != nil {
				return err
			}
			hist, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if hist != nil {
				defer hist.Close()
			}

			ing := ingest.NewIngestor(cfg, dir, hist, logger)
			result, err := ing.Run(cmd.Context(), ingest.Request{Issue: opts.issue, Kind: kind, Body: body})
			if err != nil {
				return fmt.Errorf("ingest %s failed: %w", kind.Label(), err)
			}
			if opts.json {
				return writeJSON(cmd, ingestSummaryFromResult(result))
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.issue, "issue", "", "Issue number, used for logging and history")
	cmd.Flags().StringVar(&opts.body, "body", "", "Issue body text")
	cmd.Flags().StringVar(&opts.bodyFile, "body-file", "", "Read the issue body from a file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	return cmd
}

func readIssueBody(stdin io.Reader, opts ingestOptions) (string, error) {
	switch {
	case opts.body != "":
		return opts.body, nil
	case strings.TrimSpace(opts.bodyFile) != "":
		data, err := os.ReadFile(opts.bodyFile)
		if err != nil {
			return "", fmt.Errorf("read issue body: %w", err)
		}
		return string(data), nil
	case stdin != nil:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read issue body from stdin: %w", err)
		}
		if len(data) > 0 {
			return string(data), nil
		}
	}
	return "", errors.New("issue body is required (use --body, --body-file, or stdin)")
}

type ingestSummary struct {
	RunID   string `json:"run_id"`
	Issue   string `json:"issue,omitempty"`
	Kind    string `json:"kind"`
	Format  string `json:"format"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Created bool   `json:"created"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
}

func ingestSummaryFromResult(r ingest.Result) ingestSummary {
	return ingestSummary{
		RunID:   r.RunID,
		Issue:   r.Issue,
		Kind:    r.Kind.String(),
		Format:  string(r.Format),
		Slug:    r.Slug,
		Title:   r.Title,
		Created: r.Created,
		Added:   r.Added,
		Skipped: r.Skipped,
	}
}
