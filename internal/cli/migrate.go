package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/carbon-footprint-backend/internal/database"
)

func newMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(database.Config{Path: rt.cfg.DBPath})
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.NewMigrationManager(db).RunMigrations(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to %s\n", applied, rt.cfg.DBPath)
			return nil
		},
	}
}
