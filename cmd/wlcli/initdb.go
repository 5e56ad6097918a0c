package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dropTables bool

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Initialize the database schema",
	Long:  "Initialize the database schema; with --drop all tables are dropped and recreated",
	RunE:  initdbRunE,
}

func init() {
	initdbCmd.Flags().BoolVar(&dropTables, "drop", false, "Create after drop.")
}

func initdbRunE(cmd *cobra.Command, args []string) error {
	if dropTables {
		if err := store.DropAll(); err != nil {
			return err
		}
	}
	if err := store.Migrate(); err != nil {
		return err
	}
	fmt.Println("Initialized database.")
	return nil
}
