package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/health-signal-classifier/internal/api"
	"github.com/health-signal-classifier/internal/app"
	"github.com/health-signal-classifier/internal/mcp"
)

func (r *root) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return r.serve(ctx)
		},
	}
	cmd.Flags().String("host", "", "listen address")
	cmd.Flags().Int("port", 0, "listen port")
	r.bind(cmd, "server.host", "host")
	r.bind(cmd, "server.port", "port")
	return cmd
}

func (r *root) serve(ctx context.Context) error {
	s, err := r.load(false)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := app.New(ctx, s.manager, s.logger, app.Options{LiveAlerts: true})
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	api.Version = Version
	server := api.NewServer(a.Config, s.logger, a.APIDependencies())
	err = server.Start(ctx)
	s.logger.Info("Server stopped")
	return err
}

func (r *root) mcpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the classifier as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// stdout carries the protocol.
			return r.withApp(ctx, app.Options{}, func(a *app.App) error {
				server, err := mcp.NewServer(a.Config.MCP, a.Logger, a.MCPDependencies())
				if err != nil {
					return err
				}
				return server.Run(ctx)
			})
		},
	}
}
