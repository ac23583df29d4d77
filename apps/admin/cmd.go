package main

import (
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/kymanzi/ofisi/core"
	"github.com/kymanzi/ofisi/storage/database"
)

// openDB loads the config and connects to the app database; every
// subcommand goes through it.
func openDB() (*core.Config, *sqlx.DB, error) {
	conf, err := core.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, nil, err
	}
	return conf, db, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Ofisi administration commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newAddMemberCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Provision the database and apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := core.NewConfig()
			if err != nil {
				return err
			}
			if err := database.CreateIfNotExist(conf); err != nil {
				return err
			}
			db, err := database.Open(conf)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db, conf); err != nil {
				return err
			}
			logger.Println("migrations applied")
			return nil
		},
	}
}
