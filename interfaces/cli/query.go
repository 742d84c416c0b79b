package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"graphryder-api/application/queries"
	querybus "graphryder-api/application/queries/bus"
)

type queryOptions struct {
	*rootOptions
	platform string
	tag      string
}

func newQueryCommand(root *rootOptions) *cobra.Command {
	opts := &queryOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a root query and print the result as JSON",
	}
	cmd.PersistentFlags().StringVar(&opts.platform, "platform", "", "platform name")
	cmd.PersistentFlags().StringVar(&opts.tag, "tag", "", "corpus tag name")

	subcommands := []struct {
		use, short string
		build      func() querybus.Query
	}{
		{"platforms", "List every platform", func() querybus.Query {
			return queries.ListPlatformsQuery{}
		}},
		{"tags", "List the tags of a platform", func() querybus.Query {
			return queries.TagsByPlatformQuery{Platform: opts.platform}
		}},
		{"users", "List the users of a platform", func() querybus.Query {
			return queries.UsersByPlatformQuery{Platform: opts.platform}
		}},
		{"corpus", "List the corpus tags of a platform", func() querybus.Query {
			return queries.CorpusByPlatformQuery{Platform: opts.platform}
		}},
		{"cooccurrence", "Code co-occurrence inside a corpus", func() querybus.Query {
			return queries.CooccurrenceByCorpusQuery{TagName: opts.tag, Platform: opts.platform}
		}},
		{"interactions", "User interactions inside a corpus", func() querybus.Query {
			return queries.UserInteractionGraphByCorpusQuery{TagName: opts.tag, Platform: opts.platform}
		}},
	}

	for _, sc := range subcommands {
		build := sc.build
		cmd.AddCommand(&cobra.Command{
			Use:   sc.use,
			Short: sc.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.run(cmd, build())
			},
		})
	}
	return cmd
}

func (o *queryOptions) run(cmd *cobra.Command, q querybus.Query) error {
	ctx := cmd.Context()

	// Validate before touching the store.
	if err := q.Validate(); err != nil {
		return err
	}

	container, cleanup, err := o.bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := container.QueryBus.Ask(ctx, q)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
