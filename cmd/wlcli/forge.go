package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forgeCmd = &cobra.Command{
	Use:   "forge",
	Short: "Seed the database with demo data",
	RunE:  forgeRunE,
}

// demoMovies is the demo catalog written by the forge command.
var demoMovies = []struct {
	title string
	year  string
}{
	{"My Neighbor Totoro", "1988"},
	{"Dead Poets Society", "1989"},
	{"A Perfect World", "1993"},
	{"Leon", "1994"},
	{"Mahjong", "1996"},
	{"Swallowtail Butterfly", "1996"},
	{"King of Comedy", "1999"},
	{"Devils on the Doorstep", "1999"},
	{"WALL-E", "2008"},
	{"The Pork of Music", "2012"},
}

func forgeRunE(cmd *cobra.Command, args []string) error {
	if err := store.UsersStorage().EnsureOwner("Grey Li"); err != nil {
		return err
	}
	movies := store.MoviesStorage()
	for _, m := range demoMovies {
		if _, err := movies.Create(m.title, m.year); err != nil {
			return err
		}
	}
	fmt.Println("Done.")
	return nil
}
