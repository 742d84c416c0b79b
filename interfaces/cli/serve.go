package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"graphryder-api/interfaces/http/rest"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			container, cleanup, err := opts.bootstrap(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			container.Logger.Info("Configuration loaded",
				zap.String("environment", container.Config.Environment),
				zap.String("store", container.Config.Store.Driver),
			)
			return rest.Serve(ctx, container.Config.Address(), container.Handler, container.Logger)
		},
	}
}
