package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adminUsername string
var adminPassword string

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create or update the admin account",
	Long:  "Create the admin account, or update its username and password if one already exists",
	RunE:  adminRunE,
}

func init() {
	adminCmd.Flags().StringVar(&adminUsername, "username", "", "The username used to login.")
	adminCmd.Flags().StringVar(&adminPassword, "password", "", "The password used to login.")
	_ = adminCmd.MarkFlagRequired("username")
	_ = adminCmd.MarkFlagRequired("password")
}

func adminRunE(cmd *cobra.Command, args []string) error {
	users := store.UsersStorage()
	count, err := users.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("Updating user...")
	} else {
		fmt.Println("Creating user...")
	}
	if _, err = users.SetAdmin(adminUsername, adminPassword); err != nil {
		return err
	}
	fmt.Println("Done.")
	return nil
}
