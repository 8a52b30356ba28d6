package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/config"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/database"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/logger"
)

func migrateCmd(g *globals) *cobra.Command {
	var printOnly bool

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), database.Schema())
				return err
			}

			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.StoragePostgres {
				return fmt.Errorf("migrate needs %s storage, configured %q", config.StoragePostgres, cfg.Storage.Driver)
			}

			pool, err := database.NewPool(cmd.Context(), cfg.Database, logger.L())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	c.Flags().BoolVar(&printOnly, "print", false, "print the schema instead of applying it")
	return c
}
