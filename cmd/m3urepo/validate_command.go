package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"m3urepo/internal/validate"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog for missing or malformed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, logger, err := ctx.catalogDir()
			if err != nil {
				return err
			}
			results, err := validate.NewChecker(cfg, dir, logger).Check(cmd.Context())
			if err != nil {
				return err
			}
			problems := validate.Problems(results)

			if asJSON {
				if err := writeJSON(cmd, validationJSON(results)); err != nil {
					return err
				}
			} else {
				renderValidation(cmd, results, problems)
			}
			if len(problems) > 0 {
				return fmt.Errorf("validation found %d problem(s)", len(problems))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func renderValidation(cmd *cobra.Command, results []validate.Result, problems []validate.Problem) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Catalog validation", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, r := range results {
		label := r.Kind.String() + "/" + r.Slug
		if r.OK() {
			fmt.Fprintln(out, renderStatusLine(label, statusOK, "", colorize))
			continue
		}
		fmt.Fprintln(out, renderStatusLine(label, statusError, fmt.Sprintf("%d problem(s)", len(r.Problems)), colorize))
	}

	if len(problems) > 0 {
		rows := make([][]string, 0, len(problems))
		for _, p := range problems {
			rows = append(rows, []string{p.Path, p.Message})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"Path", "Problem"}, rows, nil))
	}
	fmt.Fprintf(out, "\nValidation complete. Entries: %d, problems: %d\n", len(results), len(problems))
}

type validationEntry struct {
	Kind     string   `json:"kind"`
	Slug     string   `json:"slug"`
	Problems []string `json:"problems"`
}

func validationJSON(results []validate.Result) []validationEntry {
	out := make([]validationEntry, 0, len(results))
	for _, r := range results {
		entry := validationEntry{Kind: r.Kind.String(), Slug: r.Slug, Problems: []string{}}
		for _, p := range r.Problems {
			entry.Problems = append(entry.Problems, p.String())
		}
		out = append(out, entry)
	}
	return out
}
