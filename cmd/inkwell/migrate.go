package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bobinette/inkwell"
)

func init() {
	RootCmd.AddCommand(&MigrateCmd)
}

// MigrateCmd runs the one-shot legacy score migration: scores recorded
// on the old 100-point scale are divided by 10 and the dataset is
// stamped with the current schema version so the rescale can never run
// twice.
var MigrateCmd = cobra.Command{
	Use:   "migrate",
	Short: "Rescale legacy 100-point scores to the 0-10 scale",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		dataset, err := persistence.ReadAll(ctx)
		if err != nil {
			logger.Fatal("could not read dataset:", err)
		}

		if dataset.SchemaVersion >= inkwell.SchemaVersion {
			logger.Printf("dataset already at schema v%d, nothing to do", dataset.SchemaVersion)
			return
		}

		changed := dataset.MigrateLegacyScores()
		logger.Printf("migrated to schema v%d (scores changed: %v)", dataset.SchemaVersion, changed)

		// Write every channel back.
		err = persistence.WriteSystem(ctx, inkwell.System{
			SchemaVersion: dataset.SchemaVersion,
			Users:         dataset.Users,
			Ratings:       dataset.Ratings,
			Settings:      dataset.Settings,
		})
		if err != nil {
			logger.Fatal("could not write system record:", err)
		}

		samplesByUser := make(map[string][]inkwell.Sample)
		for _, sample := range dataset.Samples {
			samplesByUser[sample.UserID] = append(samplesByUser[sample.UserID], sample)
		}
		for userID, samples := range samplesByUser {
			if err := persistence.WriteSamples(ctx, userID, samples); err != nil {
				logger.Fatal("could not write samples:", err)
			}
		}

		worksByUser := make(map[string][]inkwell.Work)
		for _, work := range dataset.Works {
			worksByUser[work.UserID] = append(worksByUser[work.UserID], work)
		}
		for userID, works := range worksByUser {
			if err := persistence.WriteWorks(ctx, userID, works); err != nil {
				logger.Fatal("could not write works:", err)
			}
		}
	},
}
