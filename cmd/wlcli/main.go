package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/filmlog/watchlist/cmd/watchlist/config"
	"github.com/filmlog/watchlist/storage"
)

var rootCmd = &cobra.Command{
	Use:   "wlcli",
	Short: "wlcli manages your Watchlist instance",
	Long:  "wlcli manages your Watchlist instance: schema initialization, demo data and the admin account",
}

var configFile string
var store *storage.Storage

// loadStorage loads the config and opens the storage; shared by all
// subcommands via PersistentPreRunE.
func loadStorage(cmd *cobra.Command, args []string) error {
	config.Load(configFile)
	log.Println("Loaded Config")

	var err error
	store, err = storage.NewStorage(config.Get().Storage.StorageConfig())
	if err != nil {
		return err
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "the config file to use")
	rootCmd.PersistentPreRunE = loadStorage
	rootCmd.AddCommand(initdbCmd, forgeCmd, adminCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
