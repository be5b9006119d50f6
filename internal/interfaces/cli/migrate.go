package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/database/postgres"
)

func newMigrateCommand() *cobra.Command {
	var rollbackSteps int

	cmd := &cobra.Command{
		Use:   "migrate [database]",
		Short: "Apply catalog database schema migrations",
		Long: `Migrate applies the embedded schema migrations to every configured
PostgreSQL catalog database, or to the single named one.  Redis catalogs are
schemaless and are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getContext(cmd)

			migrated := 0
			for name, dbCfg := range cc.cfg.Databases {
				if dbCfg.Driver != "postgres" {
					continue
				}
				if len(args) == 1 && args[0] != name {
					continue
				}

				conn, err := postgres.NewConnection(cmd.Context(), dbCfg.Postgres, cc.logger)
				if err != nil {
					return err
				}
				dsn := conn.DSN()
				conn.Close()

				if rollbackSteps > 0 {
					err = postgres.RollbackMigration(dsn, rollbackSteps)
				} else {
					err = postgres.RunMigrations(dsn)
				}
				if err != nil {
					return fmt.Errorf("database %q: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "database %q migrated\n", name)
				migrated++
			}

			if migrated == 0 {
				return fmt.Errorf("no matching postgres database configured")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rollbackSteps, "rollback", 0, "roll back the given number of migration steps instead of migrating up")

	return cmd
}
