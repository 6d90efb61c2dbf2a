// Package cli handles the command-line interface logic
// using the Cobra library.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "revetl",
		Short: "revetl - sales revenue ETL",
		Long: `revetl reads a sales record file, cleans and aggregates revenue by country,
and replaces the revenue_by_country table in a relational database.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewRunCmd(), NewInspectCmd())

	return rootCmd
}
