package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hollowpine/inkwell/internal/server"
	"github.com/hollowpine/inkwell/internal/site"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live-reloading preview server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openProject()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ServeAddr()
			}

			log := server.NewLogger(cfg.ServeLogPath(), flagDebug)
			defer func() { _ = log.Sync() }()

			builder := site.NewBuilder(st, siteOptions(cfg))
			srv := server.New(st, builder, log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, addr, contentDir(cfg))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to the configured serve.addr)")
	return cmd
}
