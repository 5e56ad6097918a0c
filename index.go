package watchlist

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/filmlog/watchlist/storage/model"
)

// index renders the public catalog page
func (w *Watchlist) index(c *fiber.Ctx) error {
	movies, err := w.stores.Movies.List()
	if err != nil {
		return errors.Wrap(err, "index: could not load catalog")
	}
	return w.render(c, "views/index", fiber.Map{"Movies": movies})
}

// createMovie handles catalog submissions. Anonymous submissions are
// dropped with a silent redirect, nothing is persisted.
func (w *Watchlist) createMovie(c *fiber.Ctx) error {
	sess := w.session(c)
	if !sess.Authenticated() {
		return w.redirect(c, "/")
	}
	_, err := w.stores.Movies.Create(c.FormValue("title"), c.FormValue("year"))
	if err != nil {
		if _, ok := err.(model.ValidationError); ok {
			sess.Flash("Invalid input.")
			return w.redirect(c, "/")
		}
		return errors.Wrap(err, "index: could not create movie")
	}
	sess.Flash("Item created.")
	return w.redirect(c, "/")
}
