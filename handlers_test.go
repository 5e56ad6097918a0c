package watchlist

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/filmlog/watchlist/storage"
)

func newTestApp(t *testing.T) (*Watchlist, *storage.Storage) {
	t.Helper()
	store, err := storage.NewStorage(
		storage.Config{
			Driver:  storage.DriverSQLite,
			DataDir: t.TempDir(),
		},
	)
	require.NoError(t, err)
	sessions, err := NewSessions(SessionConf{Secret: "test-secret"})
	require.NoError(t, err)
	app, err := New(ServerConf{}, sessions, store.Backends())
	require.NoError(t, err)
	return app, store
}

// jar carries the session cookie between requests the way a browser would.
type jar struct {
	cookies map[string]*http.Cookie
}

func newJar() *jar {
	return &jar{cookies: map[string]*http.Cookie{}}
}

func (j *jar) update(resp *http.Response) {
	for _, c := range resp.Cookies() {
		j.cookies[c.Name] = c
	}
}

func (j *jar) apply(req *http.Request) {
	for _, c := range j.cookies {
		req.AddCookie(c)
	}
}

func (w *Watchlist) do(t *testing.T, j *jar, method, target string, form url.Values) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	if j != nil {
		j.apply(req)
	}
	resp, err := w.server.Test(req, -1)
	require.NoError(t, err)
	if j != nil {
		j.update(resp)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// login authenticates the jar's session as the provisioned admin.
func login(t *testing.T, app *Watchlist, j *jar, username, password string) *http.Response {
	t.Helper()
	return app.do(
		t, j, http.MethodPost, "/login", url.Values{
			"username": {username},
			"password": {password},
		},
	)
}

func TestLoginFlow(t *testing.T) {
	app, store := newTestApp(t)
	_, err := store.UsersStorage().SetAdmin("admin", "secret")
	require.NoError(t, err)

	// Any credential mismatch: same redirect, same generic notice
	for _, creds := range [][2]string{
		{"admin", "wrong"},
		{"nobody", "secret"},
		{"nobody", "wrong"},
	} {
		j := newJar()
		resp := login(t, app, j, creds[0], creds[1])
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/login", resp.Header.Get("Location"))
		body := readBody(t, app.do(t, j, http.MethodGet, "/login", nil))
		require.Contains(t, body, "Invalid username or password.")

		// Still anonymous: protected routes keep redirecting
		resp = app.do(t, j, http.MethodGet, "/settings", nil)
		require.Equal(t, "/login", resp.Header.Get("Location"))
	}

	// Empty fields are rejected before hitting the store
	j := newJar()
	resp := login(t, app, j, "", "secret")
	require.Equal(t, "/login", resp.Header.Get("Location"))
	require.Contains(t, readBody(t, app.do(t, j, http.MethodGet, "/login", nil)), "Invalid input.")

	// Correct credentials authenticate the session
	j = newJar()
	resp = login(t, app, j, "admin", "secret")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	body := readBody(t, app.do(t, j, http.MethodGet, "/", nil))
	require.Contains(t, body, "Login success.")

	// Flash is one-shot: gone on the next render
	body = readBody(t, app.do(t, j, http.MethodGet, "/", nil))
	require.NotContains(t, body, "Login success.")

	// Logout returns to anonymous
	resp = app.do(t, j, http.MethodGet, "/logout", nil)
	require.Equal(t, "/", resp.Header.Get("Location"))
	body = readBody(t, app.do(t, j, http.MethodGet, "/", nil))
	require.Contains(t, body, "Goodbye.")
	resp = app.do(t, j, http.MethodGet, "/settings", nil)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestUnauthenticatedMutationsHaveNoEffect(t *testing.T) {
	app, store := newTestApp(t)
	_, err := store.UsersStorage().SetAdmin("admin", "secret")
	require.NoError(t, err)
	movies := store.MoviesStorage()

	// Spec scenario: POST /movie/edit/<id> without a session redirects to
	// login and leaves the catalog unchanged.
	j := newJar()
	resp := app.do(
		t, j, http.MethodPost, "/movie/edit/1", url.Values{
			"title": {"Arrival"},
			"year":  {"2016"},
		},
	)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
	list, err := movies.List()
	require.NoError(t, err)
	require.Empty(t, list)

	resp = app.do(t, newJar(), http.MethodPost, "/movie/delete/1", nil)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	// Anonymous POST / is silently dropped: redirect home, no notice
	j = newJar()
	resp = app.do(
		t, j, http.MethodPost, "/", url.Values{
			"title": {"Arrival"},
			"year":  {"2016"},
		},
	)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	list, err = movies.List()
	require.NoError(t, err)
	require.Empty(t, list)
	body := readBody(t, app.do(t, j, http.MethodGet, "/", nil))
	require.NotContains(t, body, "Invalid")
}

func TestCreateMovie(t *testing.T) {
	app, store := newTestApp(t)
	_, err := store.UsersStorage().SetAdmin("admin", "secret")
	require.NoError(t, err)
	movies := store.MoviesStorage()

	j := newJar()
	login(t, app, j, "admin", "secret")

	resp := app.do(
		t, j, http.MethodPost, "/", url.Values{
			"title": {"Arrival"},
			"year":  {"2016"},
		},
	)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	list, err := movies.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Arrival", list[0].Title)
	require.Equal(t, "2016", list[0].Year)

	body := readBody(t, app.do(t, j, http.MethodGet, "/", nil))
	require.Contains(t, body, "Item created.")
	require.Contains(t, body, "Arrival")

	// Invalid input: flash, redirect, nothing persisted
	resp = app.do(
		t, j, http.MethodPost, "/", url.Values{
			"title": {""},
			"year":  {"2016"},
		},
	)
	require.Equal(t, "/", resp.Header.Get("Location"))
	list, err = movies.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	body = readBody(t, app.do(t, j, http.MethodGet, "/", nil))
	require.Contains(t, body, "Invalid input.")
}

func TestEditAndDeleteMovie(t *testing.T) {
	app, store := newTestApp(t)
	_, err := store.UsersStorage().SetAdmin("admin", "secret")
	require.NoError(t, err)
	movies := store.MoviesStorage()
	created, err := movies.Create("Leon", "1994")
	require.NoError(t, err)
	id := created.ID

	j := newJar()
	login(t, app, j, "admin", "secret")

	target := "/movie/edit/" + itoa(id)
	body := readBody(t, app.do(t, j, http.MethodGet, target, nil))
	require.Contains(t, body, "Leon")
	require.Contains(t, body, "1994")

	resp := app.do(
		t, j, http.MethodPost, target, url.Values{
			"title": {"Mahjong"},
			"year":  {"1996"},
		},
	)
	require.Equal(t, "/", resp.Header.Get("Location"))
	got, err := movies.Get(id)
	require.NoError(t, err)
	require.Equal(t, "Mahjong", got.Title)
	require.Equal(t, "1996", got.Year)

	// Invalid input redirects back to the edit form without persisting
	resp = app.do(
		t, j, http.MethodPost, target, url.Values{
			"title": {"Mahjong"},
			"year":  {"96"},
		},
	)
	require.Equal(t, target, resp.Header.Get("Location"))
	got, _ = movies.Get(id)
	require.Equal(t, "1996", got.Year)

	// Missing ids are a 404, for the form and both mutations
	resp = app.do(t, j, http.MethodGet, "/movie/edit/9999", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = app.do(
		t, j, http.MethodPost, "/movie/edit/9999", url.Values{
			"title": {"WALL-E"},
			"year":  {"2008"},
		},
	)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.do(t, j, http.MethodPost, "/movie/delete/"+itoa(id), nil)
	require.Equal(t, "/", resp.Header.Get("Location"))
	list, err := movies.List()
	require.NoError(t, err)
	require.Empty(t, list)

	// Deleting again is a 404, catalog unchanged
	resp = app.do(t, j, http.MethodPost, "/movie/delete/"+itoa(id), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Non-numeric id behaves like an absent record
	resp = app.do(t, j, http.MethodPost, "/movie/delete/abc", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSettings(t *testing.T) {
	app, store := newTestApp(t)
	_, err := store.UsersStorage().SetAdmin("admin", "secret")
	require.NoError(t, err)

	j := newJar()
	login(t, app, j, "admin", "secret")

	resp := app.do(
		t, j, http.MethodPost, "/settings", url.Values{
			"name": {strings.Repeat("x", 21)},
		},
	)
	require.Equal(t, "/settings", resp.Header.Get("Location"))
	require.Contains(t, readBody(t, app.do(t, j, http.MethodGet, "/settings", nil)), "Invalid input.")

	resp = app.do(
		t, j, http.MethodPost, "/settings", url.Values{
			"name": {"Grey Li"},
		},
	)
	require.Equal(t, "/", resp.Header.Get("Location"))
	body := readBody(t, app.do(t, j, http.MethodGet, "/", nil))
	require.Contains(t, body, "Settings updated.")
	// The injected owner is rendered in the header
	require.Contains(t, body, "Grey Li's Watchlist")
}

func TestUserPageEscapesName(t *testing.T) {
	app, _ := newTestApp(t)

	resp := app.do(t, nil, http.MethodGet, "/user/jenney", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "User Page : jenney", readBody(t, resp))

	resp = app.do(t, nil, http.MethodGet, "/user/%3Cscript%3E", nil)
	body := readBody(t, resp)
	require.NotContains(t, body, "<script>")
	require.Contains(t, body, "&lt;script&gt;")
}

func TestNotFoundFallback(t *testing.T) {
	app, _ := newTestApp(t)

	resp := app.do(t, nil, http.MethodGet, "/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "404")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
