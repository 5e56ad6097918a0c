package config

import (
	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/fileutils"

	"github.com/filmlog/watchlist/internal/logger"
)

// loggingConf holds all logging-related configuration under the `logging`
// key.
//
// YAML example:
//
//	logging:
//	  dir: /var/log/watchlist
//	  stderr: false
//	  level: INFO
type loggingConf struct {
	Dir    string `yaml:"dir"`
	StdErr bool   `yaml:"stderr"`
	// Level sets the verbosity for internal logs (e.g. DEBUG, INFO).
	Level string `yaml:"level"`
}

func (c *loggingConf) validate() error {
	if c.Dir != "" && !fileutils.FileExists(c.Dir) {
		return errors.Errorf("logging directory '%s' does not exist", c.Dir)
	}
	return nil
}

var defaultLoggingConf = loggingConf{
	Level: "INFO",
}

// LoggerConf converts the yaml section into a logger.Conf
func (c loggingConf) LoggerConf() logger.Conf {
	return logger.Conf{
		Level:  c.Level,
		Dir:    c.Dir,
		StdErr: c.StdErr,
	}
}
