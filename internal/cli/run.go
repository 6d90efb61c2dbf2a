package cli

import (
	"github.com/spf13/cobra"
)

func NewRunCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline: read, clean and aggregate, replace the revenue table",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runPipeline(c, opts)
		},
	}

	opts.bindStoreFlags(cmd.Flags())
	opts.bindRunFlags(cmd.Flags())
	return cmd
}

func NewInspectCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the persisted revenue table",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runInspect(c, opts)
		},
	}

	opts.bindStoreFlags(cmd.Flags())
	cmd.Flags().Int64Var(&opts.Runs, "runs", 0, "Also list the latest N run reports from MongoDB")
	return cmd
}
