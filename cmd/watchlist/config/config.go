package config

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/fileutils"
	"gopkg.in/yaml.v3"

	"github.com/filmlog/watchlist"
)

// Config holds the application configuration
type Config struct {
	Server   watchlist.ServerConf `yaml:"server"`
	Storage  storageConf          `yaml:"storage"`
	Sessions sessionsConf         `yaml:"sessions"`
	Logging  loggingConf          `yaml:"logging"`
}

var conf *Config

// possibleConfigLocations holds the default locations where the config
// file is searched if no explicit path is passed.
var possibleConfigLocations = []string{
	"config.yaml",
	"/etc/watchlist/config.yaml",
}

var defaultConfig = Config{
	Server: watchlist.ServerConf{
		Port: 8080,
	},
	Storage:  defaultStorageConf,
	Sessions: defaultSessionsConf,
	Logging:  defaultLoggingConf,
}

// Get returns the loaded Config
func Get() *Config {
	return conf
}

// Load loads the config from the passed file; if no file is passed the
// default locations are tried. Any error is fatal.
func Load(file string) {
	if file == "" {
		for _, candidate := range possibleConfigLocations {
			if fileutils.FileExists(candidate) {
				file = candidate
				break
			}
		}
	}
	if file == "" {
		log.Fatal("no config file found")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		log.WithError(err).WithField("file", file).Fatal("could not read config file")
	}
	c := defaultConfig
	if err = yaml.Unmarshal(data, &c); err != nil {
		log.WithError(err).Fatal("could not parse config file")
	}
	for _, validate := range []func() error{
		c.Storage.validate,
		c.Sessions.validate,
		c.Logging.validate,
	} {
		if err = validate(); err != nil {
			log.WithError(err).Fatal("invalid config")
		}
	}
	conf = &c
}
