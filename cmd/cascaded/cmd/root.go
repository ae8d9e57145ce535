// Package cmd implements the cascaded daemon CLI.
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cascade-dex/cascade/config"
)

const (
	flagHome     = "home"
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

// NewRootCmd builds the cascaded root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cascaded",
		Short: "Cascade AMM engine daemon",
		Long: `cascaded runs the Cascade constant-product AMM engine with its REST API,
WebSocket event stream and operational endpoints.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional; real configuration comes from the YAML file
			// and CASCADE_* variables.
			_ = godotenv.Load()
			return bindFlags(cmd)
		},
	}

	rootCmd.PersistentFlags().AddFlagSet(globalFlags())

	rootCmd.AddCommand(
		initCmd(),
		startCmd(),
		genesisCmd(),
		invariantsCmd(),
		versionCmd(),
	)
	return rootCmd
}

func globalFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.String(flagHome, "", "node home directory (default $HOME/.cascade)")
	fs.String(flagConfig, "", "path to config.yaml (default <home>/config/config.yaml)")
	fs.String(flagLogLevel, "", "log level override (trace|debug|info|warn|error)")
	return fs
}

func bindFlags(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix("CASCADE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(cmd.Flags())
}

// loadConfig resolves the config path from flags and loads it, applying
// the flag overrides that win over both file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	home, _ := cmd.Flags().GetString(flagHome)
	path, _ := cmd.Flags().GetString(flagConfig)
	if path == "" {
		if home == "" {
			home = config.DefaultConfig().HomeDir
		}
		path = filepath.Join(home, "config", "config.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if home != "" {
		cfg.HomeDir = home
	}
	if lvl, _ := cmd.Flags().GetString(flagLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}
