package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"praxis/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the decision pipeline over HTTP:

  GET  /health
  GET  /api/principles
  GET  /api/sops
  POST /api/analyze
  POST /api/history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(logger, p.kb, p.engine, p.analyzer)
		return srv.ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:2947", "listen address")
	rootCmd.AddCommand(serveCmd)
}
