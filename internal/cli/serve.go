package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the floorplan HTTP API",
		Long: `Serve the floorplan HTTP API.

Endpoints:
  GET    /healthz
  POST   /v1/cost       {"modules": [...], "expression": "a b V"}
  POST   /v1/anneal     {"modules": [...], "expression": "...", "schedule": {...}, "save": true}
  GET    /v1/runs
  GET    /v1/runs/{id}
  DELETE /v1/runs/{id}

The server uses the cache and run store from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			logger := loggerFromContext(ctx)
			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return server.New(runner, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
