package watchlist

import (
	"html"
	neturl "net/url"

	"github.com/gofiber/fiber/v2"
)

// userPage returns a small greeting fragment for the path-provided name.
// The name is user-controlled and escaped before it goes into markup; the
// route bypasses the template engine and answers with a plain fragment.
func (w *Watchlist) userPage(c *fiber.Ctx) error {
	name := c.Params("name")
	if decoded, err := neturl.PathUnescape(name); err == nil {
		name = decoded
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString("User Page : " + html.EscapeString(name))
}
