// Package cli implements the graphryder command: serve the API, run a root query
// against the configured store, or check connectivity.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"graphryder-api/infrastructure/config"
	"graphryder-api/infrastructure/di"
)

type rootOptions struct {
	envFile string
	store   string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "graphryder",
		Short: "GraphQL read API over the forum graph",
		Long: `graphryder serves the forum graph stored in Neo4j over GraphQL.

Examples:
  graphryder serve
  graphryder query users --platform forumA
  graphryder query cooccurrence --tag python --platform forumA
  graphryder check`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file read before the environment")
	cmd.PersistentFlags().StringVar(&opts.store, "store", "", "override STORE_DRIVER (neo4j, memory)")

	cmd.AddCommand(
		newServeCommand(opts),
		newQueryCommand(opts),
		newCheckCommand(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// bootstrap loads the configuration and wires the container.
func (o *rootOptions) bootstrap(ctx context.Context) (*di.Container, func(), error) {
	if o.store != "" {
		if err := os.Setenv("STORE_DRIVER", o.store); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, nil, err
	}

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return container, cleanup, nil
}
