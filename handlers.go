package pubhouse

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubhouse/blog"
)

func (a *App) handleHome(c echo.Context) error {
	stats, err := a.Blog.Home(c.Request().Context(), ActorFrom(c))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(HomePage{
		Page:  a.page(c, a.Config.Name, a.Config.Description),
		Stats: *stats,
	}))
}

func (a *App) handleExplore(c echo.Context) error {
	posts, err := a.Cache.Published(c.Request().Context())
	if err != nil {
		return err
	}
	pg := a.page(c, "Explore", "Latest posts on "+a.Config.Name)
	return Render(c, a.Views.Explore(ExplorePage{
		Page:   pg,
		Posts:  posts,
		JSONLD: WebsiteJSONLD(pg.Site),
	}))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	detail, err := a.Blog.ViewPost(ctx, slug)
	if errors.Is(err, blog.ErrNotFound) {
		// Old links used the numeric id.
		if id, ok := parseID(slug); ok {
			if p, err := a.Blog.PostByID(ctx, id); err == nil {
				return c.Redirect(http.StatusMovedPermanently, p.Link())
			}
		}
	}
	if err != nil {
		return err
	}

	pg := a.page(c, detail.Post.Title, detail.MetaDescription)
	pg.Meta.Keywords = detail.MetaKeywords
	pg.Meta.OGType = "article"
	return Render(c, a.Views.Post(PostPage{
		Page:     pg,
		Detail:   *detail,
		IsAuthor: pg.Actor.ID == detail.Post.AuthorID,
		JSONLD:   BlogPostingJSONLD(detail.Post, pg.Site),
	}))
}

func (a *App) handleDashboard(c echo.Context) error {
	d, err := a.Blog.Dashboard(c.Request().Context(), ActorFrom(c))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Dashboard(DashboardPage{
		Page:      a.page(c, "Dashboard", ""),
		Dashboard: *d,
	}))
}

func (a *App) handleTerms(c echo.Context) error {
	return Render(c, a.Views.Terms(a.page(c, "Terms of Service", "")))
}

func (a *App) handlePrivacy(c echo.Context) error {
	return Render(c, a.Views.Privacy(a.page(c, "Privacy Policy", "")))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Published(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Published(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\nSitemap: "+a.Config.URL+"/sitemap.xml\n")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	switch {
	case errors.Is(err, blog.ErrNotFound):
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "Not Found", "")))
		return
	case errors.Is(err, blog.ErrAuthorization):
		if ActorFrom(c).Anonymous() {
			_ = c.Redirect(http.StatusSeeOther, "/login/")
			return
		}
		_ = redirectWithFlash(c, "/", FlashError, blog.Messages(err)...)
		return
	case errors.Is(err, blog.ErrValidation):
		_ = redirectWithFlash(c, "/", FlashError, blog.Messages(err)...)
		return
	}

	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "Not Found", "")))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.ErrorContext(c.Request().Context(), "server error",
			"error", err,
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
		)
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, "Server Error", "")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
