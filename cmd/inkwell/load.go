package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&LoadCmd)
}

var LoadCmd = cobra.Command{
	Use:   "load",
	Short: "Load the full dataset and print a summary",
	Run: func(cmd *cobra.Command, args []string) {
		if err := engine.BulkLoad(context.Background(), true); err != nil {
			logger.Fatal("bulk load failed:", err)
		}

		dataset := store.Dataset()
		logger.Printf(
			"loaded %d users, %d samples, %d works, %d ratings (schema v%d)",
			len(dataset.Users), len(dataset.Samples), len(dataset.Works), len(dataset.Ratings),
			dataset.SchemaVersion,
		)
	},
}
