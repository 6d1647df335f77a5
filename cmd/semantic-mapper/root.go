package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"semantic-mapper/internal/description"
)

const envPrefix = "SEMANTIC_MAPPER"

// Setting keys, shared by flags, environment and config file.
const (
	keyConfig        = "config"
	keyLogLevel      = "log-level"
	keyDescription   = "description"
	keyOutput        = "output"
	keyDump          = "dump"
	keySuggest       = "suggest"
	keyStrictShapes  = "strict-shapes"
	keyValidateLinks = "validate-links"
	keyMetrics       = "metrics"
)

var longRootCmdDescription = `semantic-mapper maps CSV, JSON and YAML resources into linked records
following a YAML description of their attributes, alignments and semantic model.

Every flag can also be set with a SEMANTIC_MAPPER_ environment variable
(e.g. SEMANTIC_MAPPER_LOG_LEVEL=debug) or in the --config file.
`

// app carries the settings and logger shared by all commands.
type app struct {
	v      *viper.Viper
	level  *slog.LevelVar
	logger *slog.Logger
}

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), level: new(slog.LevelVar)}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "semantic-mapper",
		Short:         "Map heterogeneous resources into linked records.",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String(keyConfig, "", "config file (YAML) with default flag values")
	rootCmd.PersistentFlags().String(keyLogLevel, "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newCheckCmd(a), newPlanCmd(a), newMapCmd(a))

	return rootCmd
}

// setup binds the flags of the running command and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if err := a.v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}

	if cfg := a.v.GetString(keyConfig); cfg != "" {
		a.v.SetConfigFile(cfg)

		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfg, err)
		}
	}

	if err := a.level.UnmarshalText([]byte(a.v.GetString(keyLogLevel))); err != nil {
		return fmt.Errorf("invalid %s: %w", keyLogLevel, err)
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: a.level}))

	return nil
}

// description loads and compiles the description named by --description.
func (a *app) description() (*description.File, *description.Compiled, string, error) {
	path := a.v.GetString(keyDescription)
	if path == "" {
		return nil, nil, "", fmt.Errorf("--%s is required", keyDescription)
	}

	f, err := description.LoadFile(path)
	if err != nil {
		return nil, nil, "", err
	}

	for _, w := range description.Validate(f).Warnings {
		a.logger.Warn("description warning", "diagnostic", w.String())
	}

	c, err := description.Build(f)
	if err != nil {
		return nil, nil, "", err
	}

	return f, c, path, nil
}

func addDescriptionFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(keyDescription, "d", "", "description file (YAML)")
}
