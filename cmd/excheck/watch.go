package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"excheck/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Re-run verification whenever an exercise file changes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		root := exerciseRoot(args)

		rerun := func(ctx context.Context) {
			summary, err := runExercises(ctx, cfg, root)
			if err != nil {
				logger.Warn("verification run failed", zap.Error(err))
				return
			}
			fmt.Fprint(cmd.OutOrStdout(), summary.Render())
		}

		// The watcher fires one run up front, so a broken setup still
		// surfaces before the first file change.
		return watch.Run(cmd.Context(), watch.Config{Root: root}, logger, rerun)
	},
}
