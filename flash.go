package pubhouse

import (
	"encoding/gob"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// Flash severities.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level string
	Text  string
}

func init() {
	gob.Register(Flash{})
}

// addFlash queues messages for the next page of this session.
func addFlash(c echo.Context, level string, msgs ...string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		sess.AddFlash(Flash{Level: level, Text: m})
	}
	return sess.Save(c.Request(), c.Response())
}

// redirectWithFlash queues msgs and answers with a 303 to location.
func redirectWithFlash(c echo.Context, location, level string, msgs ...string) error {
	if err := addFlash(c, level, msgs...); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, location)
}

// takeFlashes pops the queued messages. It must run before the response
// body is written since it updates the session cookie.
func takeFlashes(c echo.Context) []Flash {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]Flash, 0, len(raw))
	for _, r := range raw {
		if f, ok := r.(Flash); ok {
			out = append(out, f)
		}
	}
	_ = sess.Save(c.Request(), c.Response())
	return out
}
