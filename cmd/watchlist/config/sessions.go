package config

import (
	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/duration"

	"github.com/filmlog/watchlist"
)

// sessionsConf holds all session-related configuration under the
// `sessions` key.
//
// YAML example:
//
//	sessions:
//	  secret: change-me
//	  cookie_name: watchlist_session
//	  lifetime: 744h
type sessionsConf struct {
	// Secret is the key used to sign session cookies. Mandatory.
	Secret string `yaml:"secret"`
	// CookieName overrides the session cookie name.
	CookieName string `yaml:"cookie_name"`
	// Lifetime is how long an issued session stays valid.
	Lifetime duration.DurationOption `yaml:"lifetime"`
}

func (c *sessionsConf) validate() error {
	if c.Secret == "" {
		return errors.New("error in sessions conf: secret must be set")
	}
	return nil
}

var defaultSessionsConf = sessionsConf{
	CookieName: "watchlist_session",
}

// SessionConf converts the yaml section into a watchlist.SessionConf
func (c sessionsConf) SessionConf() watchlist.SessionConf {
	return watchlist.SessionConf{
		Secret:     c.Secret,
		CookieName: c.CookieName,
		Lifetime:   c.Lifetime.Duration(),
	}
}
