package watchlist

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/filmlog/watchlist/storage/model"
)

// movieID parses the :id route parameter. A non-numeric id is treated
// like an absent record.
func movieID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// editMovieForm renders the edit form pre-filled from the stored record
func (w *Watchlist) editMovieForm(c *fiber.Ctx) error {
	id, ok := movieID(c)
	if !ok {
		return w.notFound(c)
	}
	movie, err := w.stores.Movies.Get(id)
	if err != nil {
		if _, ok := err.(model.NotFoundError); ok {
			return w.notFound(c)
		}
		return errors.Wrap(err, "edit: could not load movie")
	}
	return w.render(c, "views/edit", fiber.Map{"Movie": movie})
}

// updateMovie overwrites both fields of an existing record
func (w *Watchlist) updateMovie(c *fiber.Ctx) error {
	id, ok := movieID(c)
	if !ok {
		return w.notFound(c)
	}
	sess := w.session(c)
	_, err := w.stores.Movies.Update(id, c.FormValue("title"), c.FormValue("year"))
	if err != nil {
		switch err.(type) {
		case model.ValidationError:
			sess.Flash("Invalid input.")
			return w.redirect(c, "/movie/edit/"+c.Params("id"))
		case model.NotFoundError:
			return w.notFound(c)
		}
		return errors.Wrap(err, "edit: could not update movie")
	}
	sess.Flash("Item updated.")
	return w.redirect(c, "/")
}

// deleteMovie removes a record from the catalog
func (w *Watchlist) deleteMovie(c *fiber.Ctx) error {
	id, ok := movieID(c)
	if !ok {
		return w.notFound(c)
	}
	sess := w.session(c)
	if err := w.stores.Movies.Delete(id); err != nil {
		if _, ok := err.(model.NotFoundError); ok {
			return w.notFound(c)
		}
		return errors.Wrap(err, "delete: could not delete movie")
	}
	sess.Flash("Item deleted.")
	return w.redirect(c, "/")
}
