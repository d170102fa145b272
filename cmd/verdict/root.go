package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/verdict/internal/logging"
	"github.com/spf13/cobra"
)

// errInvalid makes the process exit with status 1 without printing anything more.
var errInvalid = errors.New("form is invalid")

var logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:           "verdict",
	Short:         "Verdict validates form data against declarative rules",
	Long:          `Verdict loads value host descriptors from YAML or JSON and evaluates their validation rules.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(raw)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", slog.LevelWarn.String(), "Log level (debug, info, warn, error)")
}
