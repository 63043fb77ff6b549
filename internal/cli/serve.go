package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mfujita/budgetflow/internal/server"
	"github.com/mfujita/budgetflow/pkg/config"
)

// newServeCmd creates the serve command exposing the engine over HTTP.
func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve flow graphs over HTTP",
		Long: `Serve starts an HTTP server exposing the flow engine:

  GET /api/v1/flow?mode=...&target=...  generated graph JSON
  GET /api/v1/health                    liveness probe

The listen address comes from the config file unless --addr overrides it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(ctx context.Context, configPath, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	engine, c, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	printInfo("Serving on %s", cfg.Server.Addr)
	return server.New(cfg.Server.Addr, engine, logger).Run(ctx)
}
