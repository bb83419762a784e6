package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"m3urepo/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect catalog entries",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogAltsCommand(ctx))
	return catalogCmd
}

type catalogRow struct {
	Kind    string `json:"kind"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Year    string `json:"year,omitempty"`
	Seasons int    `json:"seasons,omitempty"`
	Streams int    `json:"streams"`
	Problem string `json:"problem,omitempty"`
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [movies|series]",
		Short: "List catalog entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := playlistKinds(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, _, err := ctx.catalogDir()
			if err != nil {
				return err
			}

			var rows []catalogRow
			for _, kind := range kinds {
				kindRows, err := listCatalog(dir, kind, cfg.IsReserved)
				if err != nil {
					return err
				}
				rows = append(rows, kindRows...)
			}

			if asJSON {
				if rows == nil {
					rows = []catalogRow{}
				}
				return writeJSON(cmd, rows)
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "Catalog is empty")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				seasons := ""
				if r.Kind == catalog.Series.String() {
					seasons = strconv.Itoa(r.Seasons)
				}
				title := r.Title
				if r.Problem != "" {
					title = "! " + r.Problem
				}
				table = append(table, []string{r.Kind, r.Slug, title, r.Year, seasons, strconv.Itoa(r.Streams)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Kind", "Slug", "Title", "Year", "Seasons", "Streams"},
				table,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

// listCatalog summarizes every entry of kind. Unreadable entries are listed
// with a problem note rather than failing the listing.
func listCatalog(dir *catalog.Dir, kind catalog.Kind, reserved func(string) bool) ([]catalogRow, error) {
	slugs, err := dir.List(catalog.EntryRef(kind, ""))
	if err != nil {
		return nil, err
	}
	rows := make([]catalogRow, 0, len(slugs))
	for _, slug := range slugs {
		if reserved(slug) {
			continue
		}
		ref := catalog.EntryRef(kind, slug)
		row := catalogRow{Kind: kind.String(), Slug: slug}
		doc, ok, err := dir.ReadMetadata(ref)
		switch {
		case err != nil:
			row.Problem = "unreadable about.json"
		case !ok:
			row.Problem = "missing about.json"
		default:
			row.Title = doc.StringOr("title", slug)
			row.Year, _ = doc.Text("year")
		}

		if kind == catalog.Movies {
			if list, _, err := dir.ReadSources(ref); err == nil {
				row.Streams = len(list.URLs())
			}
			rows = append(rows, row)
			continue
		}

		seasons, err := dir.List(ref)
		if err != nil {
			return nil, err
		}
		row.Seasons = len(seasons)
		for _, season := range seasons {
			episodes, err := dir.List(catalog.SeasonRef(slug, season))
			if err != nil {
				return nil, err
			}
			for _, episode := range episodes {
				if list, _, err := dir.ReadSources(catalog.EpisodeRef(slug, season, episode)); err == nil {
					row.Streams += len(list.URLs())
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func newCatalogAltsCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "alts <external-id>",
		Short: "Show the slugs recorded for an external id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			kinds := catalog.Kinds
			if strings.TrimSpace(kindFlag) != "" {
				kind, err := catalog.ParseKind(kindFlag)
				if err != nil {
					return err
				}
				kinds = []catalog.Kind{kind}
			}
			dir, _, err := ctx.catalogDir()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			found := false
			for _, kind := range kinds {
				entry, ok, err := dir.ReadAlt(kind, id)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				found = true
				title := entry.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Fprintf(out, "%s %s: %s\n", kind, id, title)
				for _, slug := range entry.Slugs {
					fmt.Fprintf(out, "  - %s\n", slug)
				}
			}
			if !found {
				return fmt.Errorf("no alternate entry for %s", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "Restrict the lookup to movies or series")
	return cmd
}
