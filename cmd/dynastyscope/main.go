package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dynastyscope/dynastyscope/internal/config"
)

const (
	appName = "dynastyscope"
	version = "v0.4.0"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:     appName,
	Short:   "Dynasty league roster-transaction analysis",
	Version: version,
	Long: `DynastyScope reads a dynasty fantasy league's transaction log, rosters,
and draft-pick ledger, then classifies every team: rebuilding or contending,
which positions are desperate or hoarded, and where draft capital is flowing.

Point it at a saved league fixture for offline analysis, or run the sync
service against a live league.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		setupLogging(cfg.Log)
		return nil
	},
}

func setupLogging(lc config.LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if lc.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// normalizeFlags accepts underscores in flag names so config keys and flags
// interchange, e.g. --request_timeout and --request-timeout.
func normalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func main() {
	rootCmd.SetGlobalNormalizationFunc(normalizeFlags)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (defaults apply when omitted)")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
