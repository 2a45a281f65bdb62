package pubhouse

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// page builds the common part of a view-model and consumes pending flashes.
func (a *App) page(c echo.Context, title, description string) Page {
	return Page{
		Site: SiteInfo{
			Name:        a.Config.Name,
			URL:         a.Config.URL,
			Description: a.Config.Description,
			Author:      a.Config.Author,
		},
		Meta: PageMeta{
			Title:       title,
			Description: description,
			URL:         BuildURL(a.Config.URL, c.Request().URL.Path),
			OGType:      "website",
		},
		Actor:     ActorFrom(c),
		Flashes:   takeFlashes(c),
		CSRFToken: CsrfToken(c),
	}
}
