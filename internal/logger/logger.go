package logger

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Conf configures the internal logger.
type Conf struct {
	// Level accepts standard log levels (e.g. DEBUG, INFO, WARN, ERROR)
	Level string
	// Dir, when set, sends logs to watchlist.log in that directory
	Dir string
	// StdErr forces logging to stderr even when Dir is set
	StdErr bool
}

// Init configures logrus from the passed Conf. Called once at startup.
func Init(conf Conf) {
	log.SetFormatter(
		&log.TextFormatter{
			FullTimestamp: true,
		},
	)
	if conf.Level != "" {
		level, err := log.ParseLevel(conf.Level)
		if err != nil {
			log.WithError(err).Error("invalid log level, keeping default")
		} else {
			log.SetLevel(level)
		}
	}
	if conf.Dir != "" && !conf.StdErr {
		path := filepath.Join(conf.Dir, "watchlist.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			log.WithError(err).Error("could not open log file, keeping stderr")
			return
		}
		log.SetOutput(f)
	}
}
