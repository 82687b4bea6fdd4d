// Command neurosim evaluates neuromuscular controllers on a synthetic walker.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/neurosim/sim"
)

// envFlags maps flags to the environment variables that provide their
// defaults.
var envFlags = map[string]string{
	"log-level":    "NEUROSIM_LOG_LEVEL",
	"monitor-port": "NEUROSIM_MONITOR_PORT",
	"record-dir":   "NEUROSIM_RECORD_DIR",
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "neurosim",
		Short: "Evaluate neuromuscular controllers.",
		Long: `neurosim builds controller trees from scenario documents, runs ` +
			`them against a synthetic walker and reports the fitness of each ` +
			`run. Settings can also come from a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := applyEnv(cmd)
			if err != nil {
				return err
			}

			level, _ := cmd.Flags().GetString("log-level")
			slog.SetDefault(sim.NewLogger(level, cmd.ErrOrStderr()))

			return nil
		},
	}

	rootCmd.PersistentFlags().String("log-level", "info",
		"Log level: debug, info, warn or error.")
	rootCmd.PersistentFlags().String("env-file", ".env",
		"File to read environment defaults from.")

	rootCmd.AddCommand(
		newRunCmd(),
		newInfoCmd(),
		newRunsCmd(),
	)

	return rootCmd
}

// applyEnv loads the env file and fills the flags that were not set on the
// command line from the environment.
func applyEnv(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")

	err := godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	for name, env := range envFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}

		v, ok := os.LookupEnv(env)
		if !ok {
			continue
		}

		err = f.Value.Set(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}

	return nil
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
