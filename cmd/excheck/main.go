// Command excheck verifies self-contained exercise files: it discovers
// them under a root directory, compiles and runs each one in isolation,
// and reports which fixes hold up.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagConfig   string
	flagVerbose  bool
	flagEngine   string
	flagParallel int
	flagTime     string

	logger   *zap.Logger
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "excheck",
	Short: "excheck verifies exercise files against their expected outcomes",
	Long: `excheck discovers exercise files below a root directory, runs each one
in an isolated compile-and-execute step, and checks the result against the
contract declared in the file: an exact stdout text (//check:output) or the
program's own embedded assertions (//check:assert).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if flagVerbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagEngine, "engine", "", "runtime engine: docker or local")
	rootCmd.PersistentFlags().IntVar(&flagParallel, "max-parallel", 0, "maximum exercises verified at once")
	rootCmd.PersistentFlags().StringVar(&flagTime, "time-limit", "", "wall-clock limit per execution, e.g. 10s")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "excheck: %v\n", err)
		stop()
		os.Exit(1)
	}

	stop()
	os.Exit(exitCode)
}

func exerciseRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
