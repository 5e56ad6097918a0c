package watchlist

import (
	"embed"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed views/*.html
var viewsFS embed.FS

func newViewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(viewsFS), ".html")
}

// render draws the named view with the passed bind values plus the
// context every page gets: the drained flash notices, the login state and
// the site owner (fetched fresh per request; nil until an admin account
// is provisioned). The session is saved before rendering so drained
// flashes do not reappear.
func (w *Watchlist) render(c *fiber.Ctx, name string, bind fiber.Map) error {
	sess := w.session(c)
	if bind == nil {
		bind = fiber.Map{}
	}
	bind["Flashes"] = sess.PopFlashes()
	bind["LoggedIn"] = sess.Authenticated()
	if owner, err := w.stores.Users.Admin(); err == nil {
		bind["User"] = owner
	}
	sess.Save(c)
	return c.Render(name, bind)
}

// notFound renders the 404 view. It doubles as the tail handler for
// unmatched routes and as the response for missing resources.
func (w *Watchlist) notFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return w.render(c, "views/404", nil)
}
