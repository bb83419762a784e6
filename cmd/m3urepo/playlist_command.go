package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"m3urepo/internal/catalog"
	"m3urepo/internal/playlist"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var toStdout bool

	cmd := &cobra.Command{
		Use:       "playlist [movies|series|all]",
		Short:     "Regenerate the M3U playlists from the catalog",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"movies", "series", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := playlistKinds(args)
			if err != nil {
				return err
			}
			if toStdout && len(kinds) != 1 {
				return fmt.Errorf("--stdout needs a single kind (movies or series)")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, logger, err := ctx.catalogDir()
			if err != nil {
				return err
			}

			synth := playlist.NewSynthesizer(cfg, dir, logger)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, kind := range kinds {
				content, report, err := synth.Playlist(cmd.Context(), kind)
				if err != nil {
					return err
				}
				if toStdout {
					fmt.Fprint(out, content)
					return nil
				}
				target, err := cfg.PlaylistPath(kind.String())
				if err != nil {
					return err
				}
				if err := playlist.WriteFile(afero.NewOsFs(), target, content); err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
				status := statusOK
				message := fmt.Sprintf("wrote %s (%d entries, %d streams, %d skipped)",
					target, report.Entries, report.Streams, len(report.Skips))
				if n := report.Warnings(); n > 0 {
					status = statusWarn
					message += fmt.Sprintf("; %d malformed file(s) ignored, run `m3urepo validate` for details", n)
				}
				fmt.Fprintln(out, renderStatusLine(filepath.Base(target), status, message, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the playlist instead of writing it")
	return cmd
}

func playlistKinds(args []string) ([]catalog.Kind, error) {
	if len(args) == 0 || args[0] == "all" {
		return catalog.Kinds, nil
	}
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return nil, err
	}
	return []catalog.Kind{kind}, nil
}
