package watchlist

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/filmlog/watchlist/storage/model"
)

// loginForm renders the login page
func (w *Watchlist) loginForm(c *fiber.Ctx) error {
	return w.render(c, "views/login", nil)
}

// login checks the submitted credentials against the admin account. Any
// mismatch yields the same generic notice so the response never leaks
// which part was wrong.
func (w *Watchlist) login(c *fiber.Ctx) error {
	sess := w.session(c)
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		sess.Flash("Invalid input.")
		return w.redirect(c, "/login")
	}
	user, err := w.stores.Users.Authenticate(username, password)
	if err != nil {
		sess.Flash("Invalid username or password.")
		return w.redirect(c, "/login")
	}
	sess.Login(user.ID)
	sess.Flash("Login success.")
	return w.redirect(c, "/")
}

// logout clears the session
func (w *Watchlist) logout(c *fiber.Ctx) error {
	sess := w.session(c)
	sess.Logout()
	sess.Flash("Goodbye.")
	return w.redirect(c, "/")
}

// settingsForm renders the settings page
func (w *Watchlist) settingsForm(c *fiber.Ctx) error {
	return w.render(c, "views/settings", nil)
}

// updateSettings changes the logged-in user's display name
func (w *Watchlist) updateSettings(c *fiber.Ctx) error {
	sess := w.session(c)
	_, err := w.stores.Users.UpdateDisplayName(sess.UserID, c.FormValue("name"))
	if err != nil {
		if _, ok := err.(model.ValidationError); ok {
			sess.Flash("Invalid input.")
			return w.redirect(c, "/settings")
		}
		return errors.Wrap(err, "settings: could not update display name")
	}
	sess.Flash("Settings updated.")
	return w.redirect(c, "/")
}
