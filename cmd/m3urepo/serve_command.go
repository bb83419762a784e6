package main

import (
	"strings"

	"github.com/spf13/cobra"

	"m3urepo/internal/playlist"
	"m3urepo/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve playlists and catalog files over HTTP (read-only)",
		Long:  "Serve playlists and catalog files over HTTP until interrupted. Nothing is written to the catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind := strings.TrimSpace(bindFlag); bind != "" {
				cfg.Server.Bind = bind
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

			synth := playlist.NewSynthesizer(cfg, dir, logger)
			return server.New(cfg, dir, synth, hist, logger).Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Override the configured listen address")
	return cmd
}
