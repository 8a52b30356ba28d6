package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/config"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/database"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/logger"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/seed"
)

func seedCmd(g *globals) *cobra.Command {
	var days int

	c := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo routes, buses and schedules into PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.StoragePostgres {
				return fmt.Errorf("seed needs %s storage; memory storage is seeded by serve when seed_demo is set", config.StoragePostgres)
			}
			log := logger.L()

			pool, err := database.NewPool(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}

			sum, err := seed.Demo(cmd.Context(), repository.NewPostgresStore(pool), time.Now(), days, log)
			if err != nil {
				return err
			}
			if sum.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog already has routes, nothing to do")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d routes, %d buses, %d schedules\n", sum.Routes, sum.Buses, sum.Schedules)
			return nil
		},
	}

	c.Flags().IntVar(&days, "days", seed.DefaultDays, "number of days of schedules to create")
	return c
}
