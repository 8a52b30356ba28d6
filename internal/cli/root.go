// Package cli holds the busres command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/config"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/logger"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	debug      bool
}

// load reads the configuration and installs the process logger.
func (g *globals) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if _, err := logger.Setup(cmd.ErrOrStderr(), logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Debug:  g.debug,
	}); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:          "busres",
		Short:        "Bus seat reservation service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", os.Getenv("BUSRES_CONFIG"), "path to a YAML config file (optional)")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging with source locations")

	cmd.AddCommand(serveCmd(g), migrateCmd(g), seedCmd(g))
	return cmd
}
