package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sisi/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the line solver over HTTP",
		Long: `Serve the line solver as a JSON API.

Endpoints:
  POST /v1/solve        solve one line
  POST /v1/solve/batch  solve many lines in parallel
  GET  /healthz         liveness probe`,
		Example: `  sisi serve --addr :8080
  curl -s localhost:8080/v1/solve -H 'Content-Type: application/json' \
    -d '{"size": 10, "blocks": [2, 7]}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Config.Glyphs, c.Config.Solve.Workers, c.Logger)
			srv.Timeout = c.Config.Server.Timeout.Duration
			err = srv.ListenAndServe(cmd.Context(), addr)
			if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
