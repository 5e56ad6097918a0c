package watchlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/filmlog/watchlist/storage/model"
)

// FiberServerConfig is the fiber.Config that is used to init the http fiber.App
var FiberServerConfig = fiber.Config{
	ReadTimeout:    3 * time.Second,
	WriteTimeout:   20 * time.Second,
	IdleTimeout:    150 * time.Second,
	ReadBufferSize: 8192,
	ErrorHandler:   handleError,
	Network:        "tcp",
}

// Watchlist is the movie-catalog web application: a fiber server wired to
// the storage backends and the session manager.
type Watchlist struct {
	server     *fiber.App
	serverConf ServerConf
	sessions   *Sessions
	stores     model.Backends
}

// New creates a new Watchlist application and registers all routes.
func New(serverConf ServerConf, sessions *Sessions, stores model.Backends) (*Watchlist, error) {
	if sessions == nil {
		return nil, errors.New("watchlist: sessions manager is required")
	}
	if stores.Movies == nil || stores.Users == nil {
		return nil, errors.New("watchlist: storage backends are required")
	}
	conf := FiberServerConfig
	conf.Views = newViewEngine()
	conf.ViewsLayout = "views/layout"
	if tps := serverConf.TrustedProxies; len(tps) > 0 {
		conf.TrustedProxies = tps
		conf.EnableTrustedProxyCheck = true
	}
	conf.ProxyHeader = serverConf.ForwardedIPHeader
	server := fiber.New(conf)
	server.Use(recover.New())
	server.Use(logger.New())
	server.Use(requestid.New())

	w := &Watchlist{
		server:     server,
		serverConf: serverConf,
		sessions:   sessions,
		stores:     stores,
	}
	w.registerRoutes()
	return w, nil
}

// registerRoutes is the explicit routing table. Protected routes compose
// the RequireLogin guard in front of the handler.
func (w *Watchlist) registerRoutes() {
	s := w.server
	s.Get("/", w.index)
	s.Post("/", w.createMovie)
	s.Get("/login", w.loginForm)
	s.Post("/login", w.login)
	s.Get("/logout", w.RequireLogin, w.logout)
	s.Get("/settings", w.RequireLogin, w.settingsForm)
	s.Post("/settings", w.RequireLogin, w.updateSettings)
	s.Get("/movie/edit/:id", w.RequireLogin, w.editMovieForm)
	s.Post("/movie/edit/:id", w.RequireLogin, w.updateMovie)
	s.Post("/movie/delete/:id", w.RequireLogin, w.deleteMovie)
	s.Get("/user/:name", w.userPage)
	// Fallback for everything unmatched
	s.Use(w.notFound)
}

const sessionLocal = "watchlist_session"

// session returns the request's session, parsing the cookie once per
// request and caching the result in the fiber locals.
func (w *Watchlist) session(c *fiber.Ctx) *Session {
	if sess, ok := c.Locals(sessionLocal).(*Session); ok {
		return sess
	}
	sess := w.sessions.Load(c)
	c.Locals(sessionLocal, sess)
	return sess
}

// RequireLogin guards handlers that need an authenticated session.
// Anonymous requests get an "Invalid login." notice and are redirected to
// the login form instead of executing the handler.
func (w *Watchlist) RequireLogin(c *fiber.Ctx) error {
	sess := w.session(c)
	if !sess.Authenticated() {
		sess.Flash("Invalid login.")
		return w.redirect(c, "/login")
	}
	return c.Next()
}

// redirect saves the session and answers with 303 See Other
func (w *Watchlist) redirect(c *fiber.Ctx, location string) error {
	w.session(c).Save(c)
	return c.Redirect(location, fiber.StatusSeeOther)
}

// handleError is the fiber error handler for everything handlers did not
// map themselves: expected fiber errors keep their status, anything else
// is logged and answered with a plain 500.
func handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).SendString(fiberErr.Message)
	}
	log.WithError(err).WithField("path", c.Path()).Error("request failed")
	return c.SendStatus(fiber.StatusInternalServerError)
}

// HttpHandler returns the underlying fiber.App handler, mainly for tests
func (w *Watchlist) HttpHandler() *fiber.App {
	return w.server
}

// Listen starts an http server at the specific address
func (w *Watchlist) Listen(addr string) error {
	return w.server.Listen(addr)
}

func (w *Watchlist) Start() {
	conf := w.serverConf
	if !conf.TLS.Enabled {
		log.WithField("port", conf.Port).Info("TLS is disabled starting http server")
		log.WithError(w.server.Listen(fmt.Sprintf("%s:%d", conf.IPListen, conf.Port))).Fatal()
	}
	// TLS enabled
	if conf.TLS.RedirectHTTP {
		httpServer := fiber.New(FiberServerConfig)
		httpServer.All(
			"*", func(ctx *fiber.Ctx) error {
				//goland:noinspection HttpUrlsUsage
				return ctx.Redirect(
					strings.Replace(ctx.Request().URI().String(), "http://", "https://", 1),
					fiber.StatusPermanentRedirect,
				)
			},
		)
		log.Info("TLS and http redirect enabled, starting redirect server on port 80")
		go func() {
			log.WithError(httpServer.Listen(":80")).Fatal()
		}()
	}
	log.Info("TLS enabled, starting https server on port 443")
	log.WithError(w.server.ListenTLS(":443", conf.TLS.Cert, conf.TLS.Key)).Fatal()
}
