// Package views is the default look of a pubhouse site. Every page is an
// embedded html/template wrapped as a templ component, so sites can swap
// single pages for their own templ code.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pubhouse"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

// Default returns the built-in view set.
func Default() pubhouse.ViewFuncs {
	return pubhouse.ViewFuncs{
		Home:          component[pubhouse.HomePage]("home"),
		Explore:       component[pubhouse.ExplorePage]("explore"),
		Post:          component[pubhouse.PostPage]("post"),
		PostForm:      component[pubhouse.PostFormPage]("post_form"),
		DeleteConfirm: component[pubhouse.DeletePage]("delete"),
		Dashboard:     component[pubhouse.DashboardPage]("dashboard"),
		SignUp:        component[pubhouse.Page]("signup"),
		Login:         component[pubhouse.Page]("login"),
		Profile:       component[pubhouse.ProfilePage]("profile"),
		Terms:         component[pubhouse.Page]("terms"),
		Privacy:       component[pubhouse.Page]("privacy"),
		NotFound:      component[pubhouse.Page]("not_found"),
		ServerError:   component[pubhouse.Page]("server_error"),
	}
}

func component[T any](name string) func(T) templ.Component {
	return func(data T) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return pages.ExecuteTemplate(w, name, data)
		})
	}
}
