package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/filmlog/watchlist"
	"github.com/filmlog/watchlist/cmd/watchlist/config"
	"github.com/filmlog/watchlist/internal/logger"
	"github.com/filmlog/watchlist/internal/version"
)

func main() {
	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	config.Load(configFile)
	c := config.Get()
	logger.Init(c.Logging.LoggerConf())
	log.Info("Loaded Config")

	backs, err := config.LoadStorageBackends(c.Storage)
	if err != nil {
		log.Fatal(err)
	}

	sessions, err := watchlist.NewSessions(c.Sessions.SessionConf())
	if err != nil {
		log.Fatal(err)
	}

	app, err := watchlist.New(c.Server, sessions, backs)
	if err != nil {
		log.Fatal(err)
	}
	log.WithField("version", version.VERSION).Info("Initialized application")

	app.Start()
}
