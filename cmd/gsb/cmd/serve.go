/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve <file.gsb>",
		Short: "Serve a decoded grid file over a read-only REST API",
		Long: `Decode a grid file once and serve it over HTTP.

Endpoints:
  GET /health
  GET /api/v1/header
  GET /api/v1/subgrids
  GET /api/v1/subgrids/{name}
  GET /api/v1/subgrids/{name}/shifts/{index}
  GET /metrics

Examples:
  gsb serve SAD69.gsb
  gsb serve SAD69.gsb --bind 0.0.0.0 --port 9200`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getContainer(cmd)
			if err != nil {
				return err
			}
			cfg := c.Config()
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port, _ = cmd.Flags().GetInt("port")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			g, err := c.DecodeFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			server := c.NewServer(g, args[0])
			cmd.Printf("Serving %s on http://%s\n", args[0], server.Addr())
			cmd.Printf("Metrics available at: http://%s/metrics\n", server.Addr())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Start(ctx)
		},
	}

	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")

	return serveCmd
}
