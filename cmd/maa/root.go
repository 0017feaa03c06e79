package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/homier/maa"
	"github.com/homier/maa/internal/logging"
)

var (
	// Global flags
	verbose bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "maa",
	Short: "Hash tables, sets and string interning from the command line",
	Long: `maa exercises the maa container library: it interns the words of text
files into a string pool, computes set algebra over word lists and offers an
interactive shell over a string hash table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log container events (resizes, slab growth)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEnv returns a string pool environment logging through the command logger.
func newEnv(name string) *maa.Env {
	return maa.NewEnv(name, maa.WithLogger(logger))
}
