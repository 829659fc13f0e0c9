// Package commands implements the pointbin command tree.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justapithecus/pointbin/internal/catalog"
	"github.com/justapithecus/pointbin/internal/logging"
	"github.com/justapithecus/pointbin/internal/settings"
)

// EnvPrefix prefixes environment overrides, e.g. POINTBIN_WORKSPACE.
const EnvPrefix = "POINTBIN"

// DefaultWorkspace holds the catalog and settings when --workspace is unset.
const DefaultWorkspace = ".pointbin"

// app carries state shared by all subcommands.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

// NewRootCommand builds the pointbin command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "pointbin",
		Short: "Load and export raw binary point data",
		Long: `pointbin reads headerless little-endian sample files into a workspace
catalog and writes catalog datasets back out as .bin files with a .txt
sidecar describing their shape.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Configuration file path")
	flags.String("log-level", "info", "Logging level (debug, info, warn, error)")
	flags.String("log-format", logging.FormatText, "Log format (text, json)")
	flags.String("workspace", DefaultWorkspace, "Workspace directory holding the catalog and settings")

	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("workspace", flags.Lookup("workspace"))

	rootCmd.AddCommand(
		newLoadCommand(a),
		newExportCommand(a),
		newListCommand(a),
	)
	return rootCmd
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if configFile := a.v.GetString("config"); configFile != "" {
		a.v.SetConfigFile(configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	a.v.SetEnvPrefix(EnvPrefix)
	a.v.AutomaticEnv()

	logger, err := logging.New(logging.Config{
		Level:  a.v.GetString("log_level"),
		Format: a.v.GetString("log_format"),
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.log = logger
	return nil
}

func (a *app) workspace() string {
	if ws := a.v.GetString("workspace"); ws != "" {
		return ws
	}
	return DefaultWorkspace
}

func (a *app) catalog() (*catalog.Catalog, error) {
	return catalog.Open(filepath.Join(a.workspace(), "catalog"))
}

func (a *app) settings(kind string) (*settings.Store, error) {
	return settings.Open(filepath.Join(a.workspace(), "settings"), kind)
}
