package watchlist

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SessionConf configures the signed session cookie.
type SessionConf struct {
	// Secret is the HMAC key used to sign session tokens. Mandatory.
	Secret string
	// CookieName overrides the default session cookie name.
	CookieName string
	// Lifetime is how long an issued session token stays valid.
	Lifetime time.Duration
}

// Sessions issues and verifies signed session cookies. All session state
// lives in the cookie itself (an HS256-signed token); there is no
// server-side session table.
type Sessions struct {
	secret     []byte
	cookieName string
	lifetime   time.Duration
}

// NewSessions creates a Sessions manager from the passed conf. A missing
// secret is a configuration error.
func NewSessions(conf SessionConf) (*Sessions, error) {
	if conf.Secret == "" {
		return nil, errors.New("sessions: secret must be configured")
	}
	if conf.CookieName == "" {
		conf.CookieName = "watchlist_session"
	}
	if conf.Lifetime == 0 {
		conf.Lifetime = 31 * 24 * time.Hour
	}
	return &Sessions{
		secret:     []byte(conf.Secret),
		cookieName: conf.CookieName,
		lifetime:   conf.Lifetime,
	}, nil
}

// Session is the per-request view of the cookie state: the authenticated
// user (0 when anonymous) and the pending flash messages.
type Session struct {
	mgr     *Sessions
	UserID  uint
	flashes []string
	changed bool
}

// Load parses the session cookie of the passed request. A missing,
// expired or tampered cookie yields a fresh anonymous session, never an
// error.
func (s *Sessions) Load(c *fiber.Ctx) *Session {
	sess := &Session{mgr: s}
	raw := c.Cookies(s.cookieName)
	if raw == "" {
		return sess
	}
	token, err := jwt.Parse(
		raw, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
	)
	if err != nil || !token.Valid {
		return sess
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return sess
	}
	if uid, ok := claims["uid"].(float64); ok {
		sess.UserID = uint(uid)
	}
	if msgs, ok := claims["flash"].([]any); ok {
		for _, m := range msgs {
			if msg, ok := m.(string); ok {
				sess.flashes = append(sess.flashes, msg)
			}
		}
	}
	return sess
}

// Authenticated reports whether the session belongs to a logged-in user
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Login transitions the session to the authenticated state
func (s *Session) Login(userID uint) {
	s.UserID = userID
	s.changed = true
}

// Logout transitions the session back to anonymous
func (s *Session) Logout() {
	s.UserID = 0
	s.changed = true
}

// Flash queues a one-shot notice shown on the next rendered page
func (s *Session) Flash(msg string) {
	s.flashes = append(s.flashes, msg)
	s.changed = true
}

// PopFlashes drains the queued notices. They are gone from the session
// afterwards; a second call returns nil.
func (s *Session) PopFlashes() []string {
	if len(s.flashes) == 0 {
		return nil
	}
	msgs := s.flashes
	s.flashes = nil
	s.changed = true
	return msgs
}

// Save re-signs and sets the cookie if the session changed during the
// request. Signing failures are logged and drop the change rather than
// failing the request.
func (s *Session) Save(c *fiber.Ctx) {
	if !s.changed {
		return
	}
	claims := jwt.MapClaims{
		"exp": time.Now().Add(s.mgr.lifetime).Unix(),
	}
	if s.UserID != 0 {
		claims["uid"] = s.UserID
	}
	if len(s.flashes) > 0 {
		claims["flash"] = s.flashes
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.mgr.secret)
	if err != nil {
		log.WithError(err).Error("sessions: could not sign cookie")
		return
	}
	c.Cookie(
		&fiber.Cookie{
			Name:     s.mgr.cookieName,
			Value:    signed,
			Path:     "/",
			Expires:  time.Now().Add(s.mgr.lifetime),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		},
	)
	s.changed = false
}
